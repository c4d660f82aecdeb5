package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	assert.Equal(t, "value", GetEnvString("TEST_STR", "fallback"))
	assert.Equal(t, "fallback", GetEnvString("TEST_STR_MISSING", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, GetEnvInt("TEST_INT", 7))

	t.Setenv("TEST_INT_BAD", "not-a-number")
	assert.Equal(t, 7, GetEnvInt("TEST_INT_BAD", 7))
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "2.5")
	assert.Equal(t, 2.5, GetEnvFloat("TEST_FLOAT", 1.0))
	assert.Equal(t, 1.0, GetEnvFloat("TEST_FLOAT_MISSING", 1.0))
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"F", true, false},
		{"0", true, false},
		{"yes", false, false}, // invalid, falls back
	}
	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)
		assert.Equal(t, tt.want, GetEnvBool("TEST_BOOL", tt.def), tt.value)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("TEST_DUR", time.Minute))

	t.Setenv("TEST_DUR_BAD", "soon")
	assert.Equal(t, time.Minute, GetEnvDuration("TEST_DUR_BAD", time.Minute))
}

func TestGetEnvStringList(t *testing.T) {
	t.Setenv("TEST_LIST", "a, b , ,c")
	assert.Equal(t, []string{"a", "b", "c"}, GetEnvStringList("TEST_LIST", nil))

	def := []string{"x"}
	assert.Equal(t, def, GetEnvStringList("TEST_LIST_MISSING", def))
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Second))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}

func TestValidateDurationRange(t *testing.T) {
	assert.NoError(t, ValidateDurationRange(time.Minute, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(time.Millisecond, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(2*time.Hour, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(time.Minute, time.Hour, time.Second))
}

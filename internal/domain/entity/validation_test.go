package entity_test

import (
	"strings"
	"testing"

	"opml-gardener/internal/domain/entity"
)

func TestValidateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https", url: "https://example.com/feed.xml", wantErr: false},
		{name: "valid http", url: "http://example.com/rss", wantErr: false},
		{name: "query string kept", url: "https://example.com/feed?a=1&b=2", wantErr: false},
		{name: "empty", url: "", wantErr: true},
		{name: "ftp scheme", url: "ftp://example.com/feed", wantErr: true},
		{name: "no host", url: "https://", wantErr: true},
		{name: "relative path", url: "/feed.xml", wantErr: true},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", 2048), wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := entity.ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) err=%v, wantErr=%v", tt.url, err, tt.wantErr)
			}
		})
	}
}

package pathutil

import "strings"

// NormalizePath collapses the variable segment of feed item routes so
// metric labels stay low-cardinality: /feeds/<id> becomes /feeds/:id.
// Fixed routes pass through unchanged.
func NormalizePath(path string) string {
	const prefix = "/feeds/"
	if !strings.HasPrefix(path, prefix) {
		return path
	}
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		// Sub-resources like /feeds/bulk/category are fixed routes.
		return path
	}
	switch rest {
	case "dedupe", "selection", "bulk":
		return path
	}
	return prefix + ":id"
}

package document

import (
	"fmt"
	"strings"
	"time"
)

// RootListing synthesizes the markdown shown for a bare namespace path.
// It is generated on the fly, never persisted and never versioned.
func RootListing(namespace string, admin bool, docs []*Document) string {
	verb := "watching"
	if admin {
		verb = "editing"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Root of %s\n\n\nGo to any subpath of /%s/* to start %s a file.\n\nAvailable files:\n\n", namespace, namespace, verb)
	for _, d := range docs {
		created := time.UnixMilli(d.CreatedAt).Format(time.RFC1123)
		updated := time.UnixMilli(d.UpdatedAt).Format(time.RFC1123)
		fmt.Fprintf(&b, "- [%s](%s) - Created: %s, Updated: %s\n", d.Path, d.Path, created, updated)
	}
	return b.String()
}

// LlmsText renders the plain-text file index served at /{namespace}/llms.txt.
func LlmsText(baseURL, namespace string, docs []*Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s's Files\n\n", namespace)
	fmt.Fprintf(&b, "This document lists all available files for %s.\n\n", namespace)
	for _, d := range docs {
		fmt.Fprintf(&b, "%s%s\n", baseURL, d.Path)
	}
	if len(docs) == 0 {
		fmt.Fprintf(&b, "No files available for %s.\n", namespace)
	}
	return b.String()
}

package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespace(t *testing.T) {
	assert.Equal(t, "alice", Namespace("/alice/notes.md"))
	assert.Equal(t, "alice", Namespace("/alice"))
	assert.Equal(t, "alice", Namespace("/alice/deep/nested/file"))
	assert.Equal(t, "default", Namespace("/"))
	assert.Equal(t, "default", Namespace(""))
}

func TestNamespacePrefix(t *testing.T) {
	assert.Equal(t, "/alice/", NamespacePrefix("alice"))
}

func TestRootListing(t *testing.T) {
	docs := []*Document{
		{Path: "/alice/a.md", CreatedAt: 1700000000000, UpdatedAt: 1700000001000},
	}

	editing := RootListing("alice", true, docs)
	assert.Contains(t, editing, "# Root of alice")
	assert.Contains(t, editing, "start editing a file")
	assert.Contains(t, editing, "[/alice/a.md](/alice/a.md)")

	watching := RootListing("alice", false, nil)
	assert.Contains(t, watching, "start watching a file")
	assert.NotContains(t, watching, "a.md")
}

func TestLlmsText(t *testing.T) {
	docs := []*Document{
		{Path: "/alice/a.md"},
		{Path: "/alice/b.md"},
	}
	out := LlmsText("http://example.com", "alice", docs)
	assert.Contains(t, out, "# alice's Files")
	assert.Contains(t, out, "http://example.com/alice/a.md")
	assert.Contains(t, out, "http://example.com/alice/b.md")

	empty := LlmsText("http://example.com", "alice", nil)
	assert.Contains(t, empty, "No files available for alice.")
}

package document

// Document is the persistent record for one editable text file. Paths are
// globally unique and conventionally prefixed "/{namespace}/". Timestamps are
// Unix milliseconds; CreatedAt is written once on first upsert and never
// touched again.
type Document struct {
	Path      string `json:"path" bson:"path"`
	Content   string `json:"content" bson:"content"`
	CreatedAt int64  `json:"created_at" bson:"created_at"`
	UpdatedAt int64  `json:"updated_at" bson:"updated_at"`
}

// NamespacePrefix returns the path prefix covering every document owned by
// the given namespace.
func NamespacePrefix(namespace string) string {
	return "/" + namespace + "/"
}

// Namespace extracts the owning namespace (first path segment) from a
// document path. Returns "default" for the bare root path, matching the
// routing convention.
func Namespace(path string) string {
	seg := path
	for len(seg) > 0 && seg[0] == '/' {
		seg = seg[1:]
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] == '/' {
			return seg[:i]
		}
	}
	if seg == "" {
		return "default"
	}
	return seg
}

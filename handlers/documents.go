package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/xytext/xytext/internal/actor"
	"github.com/xytext/xytext/internal/config"
	"github.com/xytext/xytext/internal/document"
	"github.com/xytext/xytext/internal/document/repository"
	"github.com/xytext/xytext/internal/identity"
	"github.com/xytext/xytext/pkg/logger"
	"github.com/xytext/xytext/pkg/middleware"
)

// Handler serves the document surface: raw reads, admin deletes, listings
// and websocket session attach. Every mutation goes through the namespace
// actor so streamed and non-streamed changes share one serialized history.
type Handler struct {
	cfg     *config.Config
	manager *actor.Manager
}

func New(cfg *config.Config, manager *actor.Manager) *Handler {
	return &Handler{cfg: cfg, manager: manager}
}

// Register wires the document routes. Document paths are free-form
// (/{namespace}/...), so everything not matched by an explicit route lands
// in the catch-all handler.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/api/files/:namespace", h.ListFiles)
	r.NoRoute(h.Document)
}

// isAdmin applies the fixed authorization rule: the super-user is admin
// everywhere, everyone is admin inside their own namespace, and the
// anonymous namespace is writable by anyone.
func (h *Handler) isAdmin(username, namespace string) bool {
	return username == h.cfg.Identity.SuperUser ||
		namespace == username ||
		namespace == identity.Anonymous
}

// Document dispatches on method and path shape for any /{namespace}/...
// request.
func (h *Handler) Document(c *gin.Context) {
	path := c.Request.URL.Path
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		c.String(http.StatusNotFound, "Not Found")
		return
	}
	namespace := document.Namespace(path)
	username := middleware.Username(c)
	admin := h.isAdmin(username, namespace)

	if websocket.IsWebSocketUpgrade(c.Request) {
		h.serveWS(c, path, namespace, username, admin)
		return
	}

	switch c.Request.Method {
	case http.MethodGet:
		if len(segments) == 2 && segments[1] == "llms.txt" {
			h.llmsText(c, namespace)
			return
		}
		h.getDocument(c, path, namespace, admin, len(segments) == 1)
	case http.MethodDelete:
		h.deleteDocument(c, path, namespace, admin)
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	}
}

func (h *Handler) getDocument(c *gin.Context, path, namespace string, admin, isRoot bool) {
	a := h.manager.Actor(namespace)
	if isRoot {
		docs, err := a.ListDocuments(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(document.RootListing(namespace, admin, docs)))
		return
	}
	doc, err := a.GetDocument(c.Request.Context(), path)
	if err != nil {
		if err == repository.ErrNotFound {
			c.Data(http.StatusNotFound, "text/markdown; charset=utf-8", []byte("Not Found"))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}
	if doc.Content == "" {
		c.Data(http.StatusNotFound, "text/markdown; charset=utf-8", []byte("Not Found"))
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(doc.Content))
}

func (h *Handler) deleteDocument(c *gin.Context, path, namespace string, admin bool) {
	if !admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	deleted, err := h.manager.Actor(namespace).DeleteDocument(c.Request.Context(), path)
	if err != nil {
		logger.Errorf("delete %s: %v", path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListFiles enumerates a namespace: path and timestamps for every stored
// document.
func (h *Handler) ListFiles(c *gin.Context) {
	namespace := c.Param("namespace")
	docs, err := h.manager.Actor(namespace).ListDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}
	out := make([]gin.H, 0, len(docs))
	for _, d := range docs {
		out = append(out, gin.H{"path": d.Path, "created_at": d.CreatedAt, "updated_at": d.UpdatedAt})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) llmsText(c *gin.Context, namespace string) {
	docs, err := h.manager.Actor(namespace).ListDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(document.LlmsText(h.cfg.Server.BaseURL, namespace, docs)))
}

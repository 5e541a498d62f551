package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>xytext — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document for the non-streaming surface. The websocket
// protocol itself is attached by upgrading a GET on any document path.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "xytext", "version": "v0.1.0" },
  "paths": {
    "/{namespace}/{file}": {
      "get": { "summary": "Raw document content (text/markdown); upgrade to websocket to attach an editing session", "responses": { "200": { "description": "document content" }, "404": { "description": "never written" } } },
      "delete": { "summary": "Delete a document (admin of the namespace only)", "responses": { "200": { "description": "deleted" }, "403": { "description": "not an admin" }, "404": { "description": "no such document" } } }
    },
    "/{namespace}": {
      "get": { "summary": "Synthesized markdown listing of the namespace", "responses": { "200": { "description": "listing" } } }
    },
    "/{namespace}/llms.txt": {
      "get": { "summary": "Plain-text file index for the namespace", "responses": { "200": { "description": "index" } } }
    },
    "/api/files/{namespace}": {
      "get": { "summary": "JSON listing (path and timestamps) of a namespace", "responses": { "200": { "description": "file list" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`

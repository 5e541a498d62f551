package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/xytext/xytext/internal/actor"
	"github.com/xytext/xytext/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// same-origin policy is enforced upstream; document access itself is
	// governed by the admin rule, viewers are read-only anyway
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveWS upgrades the connection and binds it to the namespace actor. The
// identity and admin flag were resolved once by the caller and stay fixed
// for the session's lifetime.
func (h *Handler) serveWS(c *gin.Context, path, namespace, username string, admin bool) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("ws upgrade %s: %v", path, err)
		return
	}

	a := h.manager.Actor(namespace)
	sess := actor.NewSession(path, username, admin)
	if err := a.Connect(c.Request.Context(), sess); err != nil {
		conn.Close()
		return
	}

	// write pump: drains the actor-owned outbound channel. The channel is
	// closed by the actor on disconnect or eviction, which ends the loop
	// and tears the connection down.
	go func() {
		for msg := range sess.Outbound() {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
		conn.Close()
	}()

	// read pump: every frame goes through the actor's mailbox in arrival
	// order. Any read error means the peer is gone.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		a.Deliver(sess.ID, data)
	}
	a.Disconnect(sess.ID)
}

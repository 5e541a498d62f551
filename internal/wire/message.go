// Package wire defines the JSON messages exchanged over a session's
// websocket. Inbound frames are decoded by their "type" tag into one variant
// each; outbound messages are built through constructors so only the fields
// that belong to a kind are ever set.
package wire

import (
	"encoding/json"
	"errors"

	"github.com/xytext/xytext/internal/document"
)

const (
	TypeInit        = "init"
	TypeText        = "text"
	TypeFilesUpdate = "files_update"
	TypeJoin        = "join"
	TypeLeave       = "leave"
	TypeDeleteFile  = "delete_file"
)

var ErrUnknownType = errors.New("unknown message type")

// Inbound is one decoded client frame.
type Inbound interface {
	kind() string
}

// TextEdit is an admin edit: full replacement text plus the client-advanced
// version number.
type TextEdit struct {
	Text    string
	Version int64
}

// DeleteFile requests removal of a stored document.
type DeleteFile struct {
	Path string
}

func (TextEdit) kind() string   { return TypeText }
func (DeleteFile) kind() string { return TypeDeleteFile }

// envelope carries every optional field; Decode narrows it to one variant.
type envelope struct {
	Type    string  `json:"type"`
	Text    *string `json:"text,omitempty"`
	Version *int64  `json:"version,omitempty"`
	Path    string  `json:"path,omitempty"`
}

// Decode parses a raw client frame. Frames with an unknown type or with the
// required fields missing yield ErrUnknownType; the caller drops them.
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Type {
	case TypeText:
		if env.Text == nil || env.Version == nil {
			return nil, ErrUnknownType
		}
		return TextEdit{Text: *env.Text, Version: *env.Version}, nil
	case TypeDeleteFile:
		if env.Path == "" {
			return nil, ErrUnknownType
		}
		return DeleteFile{Path: env.Path}, nil
	default:
		return nil, ErrUnknownType
	}
}

// Message is one outbound frame. Field presence per kind matches the
// constructors below; everything else stays omitted from the JSON. Pointer
// fields keep meaningful zero values in the payload, and Files in particular
// must encode an empty listing as [] rather than dropping the key, since
// clients treat a files_update without a list as a no-op.
type Message struct {
	Type         string                `json:"type"`
	SessionID    string                `json:"sessionId,omitempty"`
	Text         *string               `json:"text,omitempty"`
	Version      *int64                `json:"version,omitempty"`
	SessionCount int                   `json:"sessionCount,omitempty"`
	IsAdmin      *bool                 `json:"isAdmin,omitempty"`
	Username     string                `json:"username,omitempty"`
	FromSession  string                `json:"fromSession,omitempty"`
	Files        *[]*document.Document `json:"files,omitempty"`
}

func fileList(files []*document.Document) *[]*document.Document {
	if files == nil {
		files = []*document.Document{}
	}
	return &files
}

func NewInit(sessionID, text string, version int64, sessionCount int, isAdmin bool, username string, files []*document.Document) Message {
	return Message{
		Type:         TypeInit,
		SessionID:    sessionID,
		Text:         &text,
		Version:      &version,
		SessionCount: sessionCount,
		IsAdmin:      &isAdmin,
		Username:     username,
		Files:        fileList(files),
	}
}

func NewText(text string, version int64, fromSession string) Message {
	return Message{Type: TypeText, Text: &text, Version: &version, FromSession: fromSession}
}

func NewFilesUpdate(files []*document.Document) Message {
	return Message{Type: TypeFilesUpdate, Files: fileList(files)}
}

func NewJoin(sessionID string, sessionCount int) Message {
	return Message{Type: TypeJoin, SessionID: sessionID, SessionCount: sessionCount}
}

func NewLeave(sessionID string, sessionCount int) Message {
	return Message{Type: TypeLeave, SessionID: sessionID, SessionCount: sessionCount}
}

// Encode marshals an outbound message once so a broadcast reuses the same
// bytes for every recipient.
func (m Message) Encode() []byte {
	b, err := json.Marshal(m)
	if err != nil {
		// Message contains only marshalable fields
		panic(err)
	}
	return b
}

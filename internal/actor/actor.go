// Package actor hosts the per-namespace synchronization actor. One goroutine
// owns all live sessions and the document store handle for its namespace and
// processes every event (connect, inbound frame, disconnect, mutation
// request) strictly in arrival order, which is what makes concurrent edits
// safe without any further locking.
package actor

import (
	"context"

	"github.com/xytext/xytext/internal/document"
	"github.com/xytext/xytext/internal/document/repository"
	"github.com/xytext/xytext/internal/wire"
	"github.com/xytext/xytext/pkg/logger"
	"github.com/xytext/xytext/pkg/metrics"
)

const mailboxSize = 128

// Archiver receives a document's final content right before deletion.
// Optional; a nil archiver skips the step.
type Archiver interface {
	Store(ctx context.Context, path, content string) error
}

type connectEvent struct {
	sess *Session
}

type frameEvent struct {
	sessionID string
	data      []byte
}

type disconnectEvent struct {
	sessionID string
}

type deleteEvent struct {
	path  string
	reply chan deleteResult
}

type deleteResult struct {
	deleted bool
	err     error
}

type getEvent struct {
	path  string
	reply chan getResult
}

type getResult struct {
	doc *document.Document
	err error
}

type listEvent struct {
	reply chan listResult
}

type listResult struct {
	docs []*document.Document
	err  error
}

// Actor serializes all work for one namespace.
type Actor struct {
	namespace string
	repo      repository.Repository
	archiver  Archiver

	mailbox  chan any
	done     chan struct{}
	stopped  chan struct{}
	registry *Registry
	versions map[string]int64
}

// New creates an actor for namespace; Run must be started on its own
// goroutine (the Manager does this).
func New(namespace string, repo repository.Repository, archiver Archiver) *Actor {
	return &Actor{
		namespace: namespace,
		repo:      repo,
		archiver:  archiver,
		mailbox:   make(chan any, mailboxSize),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		registry:  NewRegistry(),
		versions:  make(map[string]int64),
	}
}

// Run processes the mailbox until Close. Everything inside runs on this one
// goroutine; handlers below must not be called from anywhere else.
func (a *Actor) Run() {
	defer close(a.stopped)
	for {
		select {
		case ev := <-a.mailbox:
			a.handle(ev)
		case <-a.done:
			for _, s := range a.registry.All() {
				a.evict(s.ID)
			}
			return
		}
	}
}

// Close stops the actor and closes every session's outbound channel.
func (a *Actor) Close() {
	close(a.done)
	<-a.stopped
}

func (a *Actor) handle(ev any) {
	switch e := ev.(type) {
	case connectEvent:
		a.handleConnect(e.sess)
	case frameEvent:
		a.handleFrame(e.sessionID, e.data)
	case disconnectEvent:
		a.handleDisconnect(e.sessionID)
	case deleteEvent:
		deleted, err := a.handleDelete(e.path)
		e.reply <- deleteResult{deleted: deleted, err: err}
	case getEvent:
		doc, err := a.repo.Get(context.Background(), e.path)
		e.reply <- getResult{doc: doc, err: err}
	case listEvent:
		docs, err := a.repo.ListByPrefix(context.Background(), document.NamespacePrefix(a.namespace))
		e.reply <- listResult{docs: docs, err: err}
	}
}

// Connect registers a new session: the session receives its init frame and
// everyone else on the same path receives a join.
func (a *Actor) Connect(ctx context.Context, s *Session) error {
	select {
	case a.mailbox <- connectEvent{sess: s}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-a.done:
		return context.Canceled
	}
}

// Deliver feeds one raw inbound frame from a session's read pump. Blocking
// keeps a single session's frames ordered.
func (a *Actor) Deliver(sessionID string, data []byte) {
	select {
	case a.mailbox <- frameEvent{sessionID: sessionID, data: data}:
	case <-a.done:
	}
}

// Disconnect removes a session after its connection closed.
func (a *Actor) Disconnect(sessionID string) {
	select {
	case a.mailbox <- disconnectEvent{sessionID: sessionID}:
	case <-a.done:
	}
}

// DeleteDocument removes a stored document on behalf of a non-streaming
// request. Connected viewers get the same files_update broadcast as a
// streamed delete_file, so out-of-band mutations stay visible.
func (a *Actor) DeleteDocument(ctx context.Context, path string) (bool, error) {
	reply := make(chan deleteResult, 1)
	select {
	case a.mailbox <- deleteEvent{path: path, reply: reply}:
	case <-ctx.Done():
		return false, ctx.Err()
	case <-a.done:
		return false, context.Canceled
	}
	select {
	case res := <-reply:
		return res.deleted, res.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// GetDocument reads a document through the actor's event stream, so a read
// never observes a half-applied mutation.
func (a *Actor) GetDocument(ctx context.Context, path string) (*document.Document, error) {
	reply := make(chan getResult, 1)
	select {
	case a.mailbox <- getEvent{path: path, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-a.done:
		return nil, context.Canceled
	}
	select {
	case res := <-reply:
		return res.doc, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ListDocuments enumerates every document in the actor's namespace.
func (a *Actor) ListDocuments(ctx context.Context) ([]*document.Document, error) {
	reply := make(chan listResult, 1)
	select {
	case a.mailbox <- listEvent{reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-a.done:
		return nil, context.Canceled
	}
	select {
	case res := <-reply:
		return res.docs, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *Actor) rootPath() string {
	return "/" + a.namespace
}

func (a *Actor) handleConnect(s *Session) {
	ctx := context.Background()
	prefix := document.NamespacePrefix(a.namespace)

	files, err := a.repo.ListByPrefix(ctx, prefix)
	if err != nil {
		logger.Errorf("actor %s: list on connect: %v", a.namespace, err)
		metrics.StorageErrors.WithLabelValues("list").Inc()
		files = nil
	}

	var text string
	if s.Path == a.rootPath() || s.Path == prefix {
		text = document.RootListing(a.namespace, s.Admin, files)
	} else {
		doc, err := a.repo.Get(ctx, s.Path)
		switch {
		case err == nil:
			text = doc.Content
		case err == repository.ErrNotFound:
			// unwritten documents read as empty
		default:
			logger.Errorf("actor %s: get %s on connect: %v", a.namespace, s.Path, err)
			metrics.StorageErrors.WithLabelValues("get").Inc()
		}
	}

	a.registry.Register(s)
	metrics.SessionsActive.WithLabelValues(a.namespace).Inc()

	init := wire.NewInit(s.ID, text, a.versions[s.Path], a.registry.Len(), s.Admin, s.Username, files)
	if !s.trySend(init.Encode()) {
		a.evict(s.ID)
		return
	}

	join := wire.NewJoin(s.ID, a.registry.Len()).Encode()
	a.broadcast(a.registry.ByPath(s.Path, s.ID), join, wire.TypeJoin)
	logger.Debugf("actor %s: session %s joined %s (user=%s admin=%v)", a.namespace, s.ID, s.Path, s.Username, s.Admin)
}

func (a *Actor) handleFrame(sessionID string, data []byte) {
	s, ok := a.registry.Get(sessionID)
	if !ok {
		return
	}
	msg, err := wire.Decode(data)
	if err != nil {
		logger.Debugf("actor %s: dropping frame from %s: %v", a.namespace, sessionID, err)
		metrics.MessagesDropped.WithLabelValues("malformed").Inc()
		return
	}

	switch m := msg.(type) {
	case wire.TextEdit:
		if !s.Admin {
			metrics.MessagesDropped.WithLabelValues("unauthorized").Inc()
			return
		}
		a.applyEdit(s, m)
	case wire.DeleteFile:
		if !s.Admin {
			metrics.MessagesDropped.WithLabelValues("unauthorized").Inc()
			return
		}
		if _, err := a.handleDelete(m.Path); err != nil {
			// storage failure on a streamed message is abandoned
			logger.Errorf("actor %s: delete %s: %v", a.namespace, m.Path, err)
		}
	}
}

func (a *Actor) applyEdit(s *Session, edit wire.TextEdit) {
	ctx := context.Background()
	if err := a.repo.Upsert(ctx, s.Path, edit.Text); err != nil {
		logger.Errorf("actor %s: upsert %s: %v", a.namespace, s.Path, err)
		metrics.StorageErrors.WithLabelValues("upsert").Inc()
		return
	}
	// the counter advances to whatever the client supplied, scoped per path
	a.versions[s.Path] = edit.Version

	text := wire.NewText(edit.Text, edit.Version, s.ID).Encode()
	a.broadcast(a.registry.ByPath(s.Path, s.ID), text, wire.TypeText)
	a.broadcastFiles()
}

func (a *Actor) handleDelete(path string) (bool, error) {
	ctx := context.Background()
	if a.archiver != nil {
		if doc, err := a.repo.Get(ctx, path); err == nil {
			if err := a.archiver.Store(ctx, path, doc.Content); err != nil {
				logger.Warnf("actor %s: archive %s: %v", a.namespace, path, err)
			}
		}
	}
	deleted, err := a.repo.Delete(ctx, path)
	if err != nil {
		metrics.StorageErrors.WithLabelValues("delete").Inc()
		return false, err
	}
	delete(a.versions, path)
	if deleted {
		a.broadcastFiles()
	}
	return deleted, nil
}

func (a *Actor) handleDisconnect(sessionID string) {
	s, ok := a.registry.Unregister(sessionID)
	if !ok {
		return
	}
	close(s.send)
	metrics.SessionsActive.WithLabelValues(a.namespace).Dec()

	leave := wire.NewLeave(sessionID, a.registry.Len()).Encode()
	a.broadcast(a.registry.ByPath(s.Path, sessionID), leave, wire.TypeLeave)
	logger.Debugf("actor %s: session %s left %s", a.namespace, sessionID, s.Path)
}

func (a *Actor) broadcastFiles() {
	files, err := a.repo.ListByPrefix(context.Background(), document.NamespacePrefix(a.namespace))
	if err != nil {
		logger.Errorf("actor %s: list for files_update: %v", a.namespace, err)
		metrics.StorageErrors.WithLabelValues("list").Inc()
		return
	}
	msg := wire.NewFilesUpdate(files).Encode()
	a.broadcast(a.registry.ByNamespace(a.rootPath(), document.NamespacePrefix(a.namespace)), msg, wire.TypeFilesUpdate)
}

// broadcast delivers data to each target, collecting failures first and
// evicting after the delivery pass so the registry is never mutated while
// targets are being walked.
func (a *Actor) broadcast(targets []*Session, data []byte, kind string) {
	var failed []string
	for _, s := range targets {
		if s.trySend(data) {
			metrics.BroadcastsSent.WithLabelValues(kind).Inc()
		} else {
			failed = append(failed, s.ID)
		}
	}
	for _, id := range failed {
		a.evict(id)
	}
}

// evict silently drops a session whose channel cannot accept sends. Unlike a
// clean disconnect no leave is broadcast; the peer is simply gone.
func (a *Actor) evict(sessionID string) {
	s, ok := a.registry.Unregister(sessionID)
	if !ok {
		return
	}
	close(s.send)
	metrics.SessionsActive.WithLabelValues(a.namespace).Dec()
	metrics.SessionsEvicted.Inc()
	logger.Warnf("actor %s: evicted session %s (%s)", a.namespace, sessionID, s.Path)
}

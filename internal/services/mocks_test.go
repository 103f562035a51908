package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"imageworld/internal/clients/huggingface"
	"imageworld/internal/gallery"
	"imageworld/internal/imagegen"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls []imagegen.Request
	data  []byte
	err   error
}

func (f *fakeProvider) Generate(ctx context.Context, req imagegen.Request) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.data, f.err
}

func (f *fakeProvider) Calls() []imagegen.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]imagegen.Request(nil), f.calls...)
}

type listCall struct {
	owner         string
	limit, offset int
}

type fakePostStore struct {
	mu      sync.Mutex
	saved   []gallery.SaveInput
	lists   []listCall
	posts   []gallery.Post
	saveErr error
	listErr error
}

func (f *fakePostStore) Save(ctx context.Context, in gallery.SaveInput) (*gallery.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, in)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &gallery.Post{
		ID:        "post-1",
		UserID:    in.Owner.UserID,
		UserName:  in.Owner.Name,
		Prompt:    in.Prompt,
		ImageURL:  "/blobs/images/" + in.Owner.UserID + "/1",
		IsPublic:  in.IsPublic,
		CreatedAt: time.Unix(1700000000, 0).UTC(),
		Settings:  in.Settings,
	}, nil
}

func (f *fakePostStore) ListPublic(ctx context.Context, limit, offset int) ([]gallery.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, listCall{limit: limit, offset: offset})
	return f.posts, f.listErr
}

func (f *fakePostStore) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]gallery.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, listCall{owner: ownerID, limit: limit, offset: offset})
	return f.posts, f.listErr
}

func (f *fakePostStore) Saved() []gallery.SaveInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gallery.SaveInput(nil), f.saved...)
}

type fakeModels struct {
	info huggingface.ModelInfo
	err  error
}

func (f *fakeModels) GetModelInfo(ctx context.Context) (huggingface.ModelInfo, error) {
	return f.info, f.err
}

type wsMessage struct {
	kind int
	data []byte
}

var errConnClosed = errors.New("conn closed")

// fakeConn records writes; ReadMessage blocks until Close.
type fakeConn struct {
	mu      sync.Mutex
	written []wsMessage
	closed  chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (f *fakeConn) WriteMessage(kind int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, wsMessage{kind: kind, data: append([]byte(nil), data...)})
	return nil
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errConnClosed
}

func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetPongHandler(func(string) error) {}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) IsClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

func (f *fakeConn) Written() []wsMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]wsMessage(nil), f.written...)
}

package imagegen

import (
	"context"
	"sync"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls []Request
	data  []byte
	err   error
}

func (f *fakeProvider) Generate(ctx context.Context, req Request) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.data, f.err
}

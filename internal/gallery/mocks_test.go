package gallery

import (
	"context"
	"sync"
)

type fakeBlobStore struct {
	mu   sync.Mutex
	puts map[string][]byte
	ct   map[string]string
	err  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{puts: map[string][]byte{}, ct: map[string]string{}}
}

func (f *fakeBlobStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.puts[key] = data
	f.ct[key] = contentType
	return "https://blobs.test/" + key, nil
}

func (f *fakeBlobStore) Close() error {
	return nil
}

package services

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeObjectStore keeps blobs in a map and records deletions so tests can
// assert the cleanup paths.
type fakeObjectStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	deleted    []string
	failPut    bool
	failDelete bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) IssueUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://blobs.test/upload/" + key, nil
}

func (f *fakeObjectStore) IssueDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://blobs.test/download/" + key, nil
}

func (f *fakeObjectStore) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDelete {
		return errors.New("delete failed")
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) PutObject(_ context.Context, key string, body []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failPut {
		return errors.New("put failed")
	}
	f.objects[key] = body
	return nil
}

func (f *fakeObjectStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeObjectStore) put(key string, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = body
}

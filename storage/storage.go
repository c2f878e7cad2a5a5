// Package storage holds uploaded submission files and certificates.
package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"sync"

	"hackathon-backend/errs"
)

type Bucket interface {
	// Put stores r under key and returns the public URL of the object.
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// PublicURL is where the HTTP layer serves key from.
func PublicURL(baseURL, key string) string {
	return baseURL + "/files/" + url.PathEscape(key)
}

type object struct {
	contentType string
	data        []byte
}

type Memory struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]object
}

func NewMemory(baseURL string) *Memory {
	return &Memory{baseURL: baseURL, objects: make(map[string]object)}
}

func (m *Memory) Put(_ context.Context, key, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errs.ErrUpload
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = object{contentType: contentType, data: data}
	return PublicURL(m.baseURL, key), nil
}

func (m *Memory) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(o.data)), nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

package storage

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Memory is an in-process Storage used when no object store is configured.
type Memory struct {
	mu      sync.Mutex
	objects map[string]Object
}

func NewMemory() *Memory {
	return &Memory{objects: map[string]Object{}}
}

func (m *Memory) Put(ctx context.Context, obj Object) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	if err := obj.validate(); err != nil {
		return ObjectInfo{}, err
	}

	obj.Body = slices.Clone(obj.Body)

	m.mu.Lock()
	m.objects[obj.Bucket+"/"+obj.Key] = obj
	m.mu.Unlock()

	return ObjectInfo{
		Bucket:    obj.Bucket,
		Key:       obj.Key,
		Size:      int64(len(obj.Body)),
		UpdatedAt: time.Now(),
	}, nil
}

// Object returns the stored object for bucket/key.
func (m *Memory) Object(bucket, key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[bucket+"/"+key]
	return obj, ok
}

func (*Memory) Close() error { return nil }

package persistence

import (
	"context"
	"sync"

	"github.com/cnds86/kiptrack/internal/models"
)

// subscriberBuffer bounds how far a slow subscriber may lag before Save blocks.
const subscriberBuffer = 64

// MemoryBackend keeps documents in process. Every Save is fanned out to all
// subscribers of the key, including the one that wrote it.
type MemoryBackend struct {
	mu     sync.Mutex
	docs   map[string][]byte
	subs   map[string]map[int]chan *models.AppData
	nextID int
}

// NewMemoryBackend creates an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		docs: make(map[string][]byte),
		subs: make(map[string]map[int]chan *models.AppData),
	}
}

// Load implements Backend.
func (b *MemoryBackend) Load(_ context.Context, key string) (*models.AppData, error) {
	b.mu.Lock()
	raw, ok := b.docs[key]
	b.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return decode(raw)
}

// Save implements Backend.
func (b *MemoryBackend) Save(ctx context.Context, key string, data models.AppData) error {
	raw, err := encode(data)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.docs[key] = raw
	chans := make([]chan *models.AppData, 0, len(b.subs[key]))
	for _, ch := range b.subs[key] {
		chans = append(chans, ch)
	}
	b.mu.Unlock()

	for _, ch := range chans {
		doc, err := decode(raw)
		if err != nil {
			return err
		}
		select {
		case ch <- doc:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe implements Backend.
func (b *MemoryBackend) Subscribe(ctx context.Context, key string, fn func(*models.AppData)) (func(), error) {
	ch := make(chan *models.AppData, subscriberBuffer)

	// Register and queue the current document under one lock so no Save can
	// slip between them.
	b.mu.Lock()
	var current *models.AppData
	if raw, ok := b.docs[key]; ok {
		doc, err := decode(raw)
		if err != nil {
			b.mu.Unlock()
			return nil, err
		}
		current = doc
	}
	ch <- current
	id := b.nextID
	b.nextID++
	if b.subs[key] == nil {
		b.subs[key] = make(map[int]chan *models.AppData)
	}
	b.subs[key][id] = ch
	b.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case doc := <-ch:
				fn(doc)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[key], id)
			b.mu.Unlock()
			cancel()
			<-done
		})
	}, nil
}

// Close implements Backend.
func (b *MemoryBackend) Close() error { return nil }

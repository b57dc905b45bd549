// Package memory provides an in-process URL store for development and tests.
// It keeps the same conditional-insert and atomic-increment guarantees as the
// networked backends.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vadimbarashkov/uriz/internal/entity"
)

type URLRepository struct {
	mu      sync.RWMutex
	forward map[string]entity.ShortURL
	reverse map[string]string
}

func NewURLRepository() *URLRepository {
	return &URLRepository{
		forward: make(map[string]entity.ShortURL),
		reverse: make(map[string]string),
	}
}

func (r *URLRepository) Exists(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.forward[token]
	return ok, nil
}

func (r *URLRepository) GetForward(_ context.Context, token string) (*entity.ShortURL, error) {
	const op = "adapter.repository.memory.URLRepository.GetForward"

	r.mu.RLock()
	defer r.mu.RUnlock()

	url, ok := r.forward[token]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}

	return &url, nil
}

func (r *URLRepository) GetReverse(_ context.Context, longURL string) (string, error) {
	const op = "adapter.repository.memory.URLRepository.GetReverse"

	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.reverse[longURL]
	if !ok {
		return "", fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}

	return token, nil
}

func (r *URLRepository) InsertForward(_ context.Context, url *entity.ShortURL) error {
	const op = "adapter.repository.memory.URLRepository.InsertForward"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.forward[url.Token]; ok {
		return fmt.Errorf("%s: %w", op, entity.ErrTokenExists)
	}

	r.forward[url.Token] = *url
	return nil
}

func (r *URLRepository) InsertReverse(_ context.Context, idx *entity.ReverseIndex) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reverse[idx.LongURL] = idx.Token
	return nil
}

func (r *URLRepository) IncrementVisits(_ context.Context, token string) error {
	const op = "adapter.repository.memory.URLRepository.IncrementVisits"

	r.mu.Lock()
	defer r.mu.Unlock()

	url, ok := r.forward[token]
	if !ok {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}

	url.Visits++
	r.forward[token] = url
	return nil
}

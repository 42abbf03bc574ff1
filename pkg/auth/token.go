package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/onboardkit/pkg/file"
	"github.com/dmitrymomot/onboardkit/pkg/sanitizer"
)

// TokenStore persists tokens per subject. Load returns ErrNoToken when the
// subject never signed in.
type TokenStore interface {
	Load(ctx context.Context, subject string) (*oauth2.Token, error)
	Save(ctx context.Context, subject string, tok *oauth2.Token) error
	Delete(ctx context.Context, subject string) error
}

// MemoryTokenStore keeps tokens for the life of the process.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]oauth2.Token
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]oauth2.Token)}
}

func (s *MemoryTokenStore) Load(_ context.Context, subject string) (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, ok := s.tokens[subject]
	if !ok {
		return nil, ErrNoToken
	}
	return &tok, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, subject string, tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[subject] = *tok
	return nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, subject)
	return nil
}

// TokensPrefix is where StorageTokenStore writes.
const TokensPrefix = "tokens/"

// StorageTokenStore keeps tokens as JSON documents in file.Storage so the
// CLI stays signed in between runs.
type StorageTokenStore struct {
	store file.Storage
}

func NewStorageTokenStore(store file.Storage) *StorageTokenStore {
	return &StorageTokenStore{store: store}
}

func (s *StorageTokenStore) key(subject string) string {
	return TokensPrefix + sanitizer.SanitizeFilename(strings.ToLower(subject)) + ".json"
}

func (s *StorageTokenStore) Load(ctx context.Context, subject string) (*oauth2.Token, error) {
	data, _, err := file.ReadAll(ctx, s.store, s.key(subject))
	if errors.Is(err, file.ErrNotFound) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token for %s: %w", subject, err)
	}
	return &tok, nil
}

func (s *StorageTokenStore) Save(ctx context.Context, subject string, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	_, err = s.store.Put(ctx, s.key(subject), bytes.NewReader(data), file.WithContentType("application/json"))
	return err
}

func (s *StorageTokenStore) Delete(ctx context.Context, subject string) error {
	err := s.store.Delete(ctx, s.key(subject))
	if errors.Is(err, file.ErrNotFound) {
		return nil
	}
	return err
}

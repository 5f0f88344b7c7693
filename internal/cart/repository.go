package cart

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Repository persists carts by session id.
type Repository interface {
	// Load returns the cart for a session. A session with no cart yields an
	// empty store, never an error.
	Load(ctx context.Context, sessionID string) (*Store, error)

	// Save stores the cart for a session. Saving an empty cart deletes it.
	Save(ctx context.Context, sessionID string, store *Store) error

	// Delete removes the cart for a session.
	Delete(ctx context.Context, sessionID string) error
}

// memoryRepository keeps carts in process memory. Carts are lost on restart.
type memoryRepository struct {
	mu     sync.RWMutex
	carts  map[string][]Line
	logger zerolog.Logger
}

// NewMemoryRepository creates an in-process cart repository.
func NewMemoryRepository(logger zerolog.Logger) Repository {
	return &memoryRepository{
		carts:  make(map[string][]Line),
		logger: logger.With().Str("repository", "cart-memory").Logger(),
	}
}

func (r *memoryRepository) Load(_ context.Context, sessionID string) (*Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return NewStore(r.carts[sessionID]...), nil
}

func (r *memoryRepository) Save(_ context.Context, sessionID string, store *Store) error {
	lines := store.Lines()

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(lines) == 0 {
		delete(r.carts, sessionID)
		return nil
	}
	r.carts[sessionID] = lines
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)
	r.logger.Debug().Str("session_id", sessionID).Msg("cart deleted")
	return nil
}

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

var _ AuthRepo = (*MemoryAuthRepo)(nil)

// MemoryAuthRepo keeps accounts in process memory. Used by the memory driver and tests.
type MemoryAuthRepo struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]types.User
	byEmail map[string]int64
}

func NewMemoryAuthRepo() *MemoryAuthRepo {
	return &MemoryAuthRepo{
		nextID:  1,
		byID:    make(map[int64]types.User),
		byEmail: make(map[string]int64),
	}
}

func (r *MemoryAuthRepo) GetUserByEmail(_ context.Context, email string) (*types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, types.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryAuthRepo) GetUserByID(_ context.Context, id int64) (*types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryAuthRepo) CreateUser(_ context.Context, email, passwordHash string, name *string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, types.ErrConflict
	}

	u := types.User{
		ID:           r.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}
	r.nextID++
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return &u, nil
}

package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ukydev/property-maintenance/internal/models"
)

// MemoryUserCollection is an in-process UserCollection used when no MongoDB
// is configured. Accounts do not survive a restart.
type MemoryUserCollection struct {
	mu    sync.RWMutex
	users map[string]models.User // keyed by hex id
}

// NewMemoryUserCollection creates an empty in-memory user collection.
func NewMemoryUserCollection() *MemoryUserCollection {
	return &MemoryUserCollection{users: make(map[string]models.User)}
}

func (c *MemoryUserCollection) InsertUser(_ context.Context, user models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := user.ID.Hex()
	if _, exists := c.users[id]; exists {
		return fmt.Errorf("user already exists: %s", id)
	}
	c.users[id] = user
	return nil
}

func (c *MemoryUserCollection) FindUserByID(_ context.Context, id string) (*models.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	user, ok := c.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return &user, nil
}

func (c *MemoryUserCollection) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, user := range c.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (c *MemoryUserCollection) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, user := range c.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (c *MemoryUserCollection) UpdateUser(_ context.Context, id string, user models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.users[id]; !ok {
		return fmt.Errorf("user not found")
	}
	user.UpdatedAt = time.Now()
	c.users[id] = user
	return nil
}

func (c *MemoryUserCollection) UpdateLastLogin(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	user, ok := c.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	now := time.Now()
	user.LastLogin = &now
	c.users[id] = user
	return nil
}

// Package session holds the unlocked vault key in memory. The key lives
// only while a session is active and is wiped on clear; nothing here is
// ever persisted.
package session

import (
	"sync"
	"time"

	"github.com/gmanager/gmanager/internal/common"
	"github.com/gmanager/gmanager/internal/cryptox"
)

// Manager guards a single optional session slot. The zero slot means no
// user is logged in. All methods are safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	key       []byte
	createdAt time.Time
}

// NewManager returns an empty session manager. Each application wires
// exactly one instance; there is no package-level singleton.
func NewManager() *Manager {
	return &Manager{}
}

// Store installs a key after a successful unlock, unconditionally replacing
// any previous session. The previous key is wiped before being dropped and
// the stored key is a private copy, so callers may wipe their own buffer
// afterwards.
func (m *Manager) Store(key []byte) error {
	if err := cryptox.ValidateKey(key); err != nil {
		return err
	}

	// Prepare outside the lock; the critical section is plain assignments.
	cp := make([]byte, len(key))
	copy(cp, key)
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	common.WipeByteArray(m.key)
	m.key = cp
	m.createdAt = now
	return nil
}

// Key returns a copy of the active session key, or ErrNotLoggedIn when no
// session is active. Callers should wipe the copy when done with it.
func (m *Manager) Key() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key == nil {
		return nil, common.ErrNotLoggedIn
	}

	cp := make([]byte, len(m.key))
	copy(cp, m.key)
	return cp, nil
}

// CreatedAt returns when the active session was established.
func (m *Manager) CreatedAt() (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key == nil {
		return time.Time{}, common.ErrNotLoggedIn
	}
	return m.createdAt, nil
}

// Active reports whether a session is currently established.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key != nil
}

// Clear wipes and drops the session key. Safe to call when no session is
// active, and safe to call repeatedly.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	common.WipeByteArray(m.key)
	m.key = nil
	m.createdAt = time.Time{}
}

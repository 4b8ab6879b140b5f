package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmanager/gmanager/internal/common"
	"github.com/gmanager/gmanager/internal/cryptox"
)

func testKey(b byte) []byte {
	key := make([]byte, cryptox.KeySize)
	for i := range key {
		key[i] = b
	}
	return key
}

func TestManager_StoreAndKey(t *testing.T) {
	m := NewManager()

	require.NoError(t, m.Store(testKey(0x42)))

	got, err := m.Key()
	require.NoError(t, err)
	assert.Equal(t, testKey(0x42), got)
}

func TestManager_StoreRejectsWrongSize(t *testing.T) {
	m := NewManager()

	err := m.Store([]byte("too-short"))
	assert.ErrorIs(t, err, cryptox.ErrInvalidFormat)
	assert.False(t, m.Active())
}

func TestManager_EmptySlot(t *testing.T) {
	m := NewManager()

	_, err := m.Key()
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)

	_, err = m.CreatedAt()
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)

	assert.False(t, m.Active())
}

func TestManager_StoreCopiesInput(t *testing.T) {
	m := NewManager()

	input := testKey(0x01)
	require.NoError(t, m.Store(input))

	// Wiping the caller's buffer must not affect the stored key.
	common.WipeByteArray(input)

	got, err := m.Key()
	require.NoError(t, err)
	assert.Equal(t, testKey(0x01), got)
}

func TestManager_KeyReturnsCopy(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Store(testKey(0x05)))

	first, err := m.Key()
	require.NoError(t, err)
	first[0] = 0xFF

	second, err := m.Key()
	require.NoError(t, err)
	assert.Equal(t, testKey(0x05), second)
}

func TestManager_StoreReplaces(t *testing.T) {
	m := NewManager()

	require.NoError(t, m.Store(testKey(0x01)))
	first, err := m.CreatedAt()
	require.NoError(t, err)

	require.NoError(t, m.Store(testKey(0x02)))

	got, err := m.Key()
	require.NoError(t, err)
	assert.Equal(t, testKey(0x02), got)

	second, err := m.CreatedAt()
	require.NoError(t, err)
	assert.False(t, second.Before(first))
}

func TestManager_Clear(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Store(testKey(0x03)))
	require.True(t, m.Active())

	m.Clear()

	assert.False(t, m.Active())
	_, err := m.Key()
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)

	// Clearing again is a safe no-op, as is clearing a fresh manager.
	m.Clear()
	NewManager().Clear()
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 3 {
			case 0:
				_ = m.Store(testKey(byte(i)))
			case 1:
				_, _ = m.Key()
			default:
				m.Clear()
			}
		}(i)
	}
	wg.Wait()

	// The slot must end in a coherent state: either empty or holding a
	// full-size key.
	if key, err := m.Key(); err == nil {
		assert.Len(t, key, cryptox.KeySize)
	}
}

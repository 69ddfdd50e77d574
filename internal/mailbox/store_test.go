package mailbox

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreWriteRead(t *testing.T) {
	store := NewStore(0)

	n, err := store.Write(0, 7, []byte("Hello, World!"))
	require.NoError(t, err)
	assert.Equal(t, 13, n)

	msg, err := store.Read(0, 7, 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello, World!"), msg)

	// Reads never consume the message.
	msg, err = store.Read(0, 7, 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello, World!"), msg)

	// Overwrite replaces the stored message in full.
	n, err = store.Write(0, 7, []byte("Hi"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	msg, err = store.Read(0, 7, 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hi"), msg)
}

func TestStoreWriteInvalidSize(t *testing.T) {
	store := NewStore(0)

	_, err := store.Write(0, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = store.Write(0, 1, []byte{})
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = store.Write(0, 1, make([]byte, MaxMessageSize+1))
	assert.ErrorIs(t, err, ErrInvalidSize)

	// A rejected write leaves an existing message untouched.
	_, err = store.Write(0, 2, []byte("keep"))
	require.NoError(t, err)
	_, err = store.Write(0, 2, make([]byte, 129))
	assert.ErrorIs(t, err, ErrInvalidSize)

	msg, err := store.Read(0, 2, 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), msg)
}

func TestStoreWriteMaxSize(t *testing.T) {
	store := NewStore(0)

	payload := bytes.Repeat([]byte{0xA5}, MaxMessageSize)
	n, err := store.Write(3, 9, payload)
	require.NoError(t, err)
	assert.Equal(t, MaxMessageSize, n)

	msg, err := store.Read(3, 9, MaxMessageSize)
	require.NoError(t, err)
	assert.Equal(t, payload, msg)
}

func TestStoreReadNoMessage(t *testing.T) {
	store := NewStore(0)

	_, err := store.Read(0, 7, 128)
	assert.ErrorIs(t, err, ErrNoMessage)
}

func TestStoreReadBufferTooSmall(t *testing.T) {
	store := NewStore(0)

	_, err := store.Write(0, 7, []byte("Hello, World!"))
	require.NoError(t, err)

	_, err = store.Read(0, 7, 12)
	assert.ErrorIs(t, err, ErrBufferTooSmall)

	// A short read does not clear the message.
	msg, err := store.Read(0, 7, 13)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello, World!"), msg)
}

func TestStoreSlotIsolation(t *testing.T) {
	store := NewStore(0)

	_, err := store.Write(1, 7, []byte("slot one"))
	require.NoError(t, err)
	_, err = store.Write(2, 7, []byte("slot two"))
	require.NoError(t, err)

	msg, err := store.Read(1, 7, 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("slot one"), msg)

	msg, err = store.Read(2, 7, 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("slot two"), msg)
}

func TestStoreEntryLimit(t *testing.T) {
	store := NewStore(2)

	_, err := store.Write(0, 1, []byte("a"))
	require.NoError(t, err)
	_, err = store.Write(0, 2, []byte("b"))
	require.NoError(t, err)

	// A third distinct key exceeds the cap.
	_, err = store.Write(0, 3, []byte("c"))
	assert.ErrorIs(t, err, ErrResourceExhausted)

	// Overwriting an existing key still succeeds at the cap.
	_, err = store.Write(0, 1, []byte("a2"))
	require.NoError(t, err)

	msg, err := store.Read(0, 1, 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("a2"), msg)
}

func TestStoreCallerBufferAliasing(t *testing.T) {
	store := NewStore(0)

	data := []byte("mutate me")
	_, err := store.Write(0, 1, data)
	require.NoError(t, err)

	// Mutating the caller's slice after the write must not leak into
	// the stored message.
	data[0] = 'X'

	msg, err := store.Read(0, 1, 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("mutate me"), msg)

	// Same the other way: a returned copy is not backed by store memory.
	msg[0] = 'Y'
	again, err := store.Read(0, 1, 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("mutate me"), again)
}

func TestStoreDropSlot(t *testing.T) {
	store := NewStore(0)

	_, err := store.Write(5, 1, []byte("x"))
	require.NoError(t, err)
	_, err = store.Write(5, 2, []byte("y"))
	require.NoError(t, err)
	_, err = store.Write(6, 1, []byte("z"))
	require.NoError(t, err)

	removed := store.DropSlot(5)
	assert.Equal(t, 2, removed)

	_, err = store.Read(5, 1, 128)
	assert.ErrorIs(t, err, ErrNoMessage)

	msg, err := store.Read(6, 1, 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("z"), msg)
}

func TestStoreStats(t *testing.T) {
	store := NewStore(10)

	_, err := store.Write(1, 1, []byte("a"))
	require.NoError(t, err)
	_, err = store.Write(1, 2, []byte("b"))
	require.NoError(t, err)
	_, err = store.Write(2, 1, []byte("c"))
	require.NoError(t, err)

	stats := store.Stats()
	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, 10, stats.MaxEntries)
	assert.Equal(t, 2, stats.PerSlot[1])
	assert.Equal(t, 1, stats.PerSlot[2])
}

func TestStoreConcurrentWriters(t *testing.T) {
	store := NewStore(0)

	// Two distinct full-length patterns; any read must observe one of
	// them in full, never a mixture.
	m1 := bytes.Repeat([]byte{0x11}, MaxMessageSize)
	m2 := bytes.Repeat([]byte{0xEE}, MaxMessageSize)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for _, m := range [][]byte{m1, m2} {
		wg.Add(1)
		go func(payload []byte) {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if _, err := store.Write(0, 7, payload); err != nil {
					t.Errorf("write: %v", err)
					return
				}
			}
		}(m)
	}

	for i := 0; i < 1000; i++ {
		msg, err := store.Read(0, 7, MaxMessageSize)
		if err == ErrNoMessage {
			continue
		}
		require.NoError(t, err)
		if !bytes.Equal(msg, m1) && !bytes.Equal(msg, m2) {
			t.Fatalf("torn read: %x", msg)
		}
	}

	close(stop)
	wg.Wait()
}

func TestStoreConcurrentDistinctKeys(t *testing.T) {
	store := NewStore(0)

	var wg sync.WaitGroup
	for slot := uint32(0); slot < 4; slot++ {
		for channel := uint32(1); channel <= 8; channel++ {
			wg.Add(1)
			go func(s, c uint32) {
				defer wg.Done()
				payload := []byte(fmt.Sprintf("s%d-c%d", s, c))
				for i := 0; i < 50; i++ {
					if _, err := store.Write(s, c, payload); err != nil {
						t.Errorf("write(%d,%d): %v", s, c, err)
						return
					}
					msg, err := store.Read(s, c, 128)
					if err != nil {
						t.Errorf("read(%d,%d): %v", s, c, err)
						return
					}
					if !bytes.Equal(msg, payload) {
						t.Errorf("cross-key bleed at (%d,%d): %q", s, c, msg)
						return
					}
				}
			}(slot, channel)
		}
	}
	wg.Wait()

	assert.Equal(t, 32, store.Stats().Entries)
}

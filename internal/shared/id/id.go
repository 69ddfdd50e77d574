// Package id provides ULID generation for the mailslot service.
//
// ULIDs are lexicographically sortable, so request and span IDs line
// up chronologically in logs. Typed wrappers with distinct prefixes
// (req_*, span_*, watch_*) keep the namespaces apart and make log
// lines readable.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID identifies an API request.
type RequestID string

// SpanID identifies a traced operation within a request.
type SpanID string

// WatchID identifies a WebSocket watcher connection.
type WatchID string

const (
	RequestPrefix = "req"
	SpanPrefix    = "span"
	WatchPrefix   = "watch"
)

// Generator generates ULIDs from an entropy source.
type Generator struct {
	entropyMu sync.Mutex
	entropy   io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator backed by crypto/rand.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with cryptographically secure entropy.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy
// source, useful for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewRequestID generates a new request ID.
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewSpanID generates a new span ID.
func NewSpanID() SpanID {
	return SpanID(Default().GenerateWithPrefix(SpanPrefix))
}

// NewWatchID generates a new watcher ID.
func NewWatchID() WatchID {
	return WatchID(Default().GenerateWithPrefix(WatchPrefix))
}

func (id RequestID) String() string { return string(id) }
func (id SpanID) String() string    { return string(id) }
func (id WatchID) String() string   { return string(id) }

// IsValid reports whether id is a bare, valid ULID.
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Timestamp extracts the embedded timestamp from a bare ULID string.
func Timestamp(id string) (time.Time, error) {
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}

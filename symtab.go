// symtab.go
//
// Bounded symbol table that maps 64-bit farmhash fingerprints back to the text
// they were computed from. Callers intern identifiers once and pass the
// fingerprint around instead of the string; Resolve turns it back into text.
//
// Every entry is an owned Str, so short identifiers cost no allocation beyond
// the table slot. The table is an LRU bounded by entry count: the least
// recently used entry is evicted when the table is full, and its Str is closed
// at that moment. Remove and Close release entries the same way, so each
// stored Str is released exactly once.

package embedstr

import (
	"fmt"
	"strings"
	"sync"

	farm "github.com/dgryski/go-farm"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultTableCapacity = 4096

// SymbolTable interns strings under their farmhash fingerprint.
//
// All methods are safe for concurrent use. Eviction closes the evicted Str,
// so mu keeps readers that are still copying text out of an entry from racing
// with its release.
type SymbolTable struct {
	// mu is held for writing by every call that can evict or remove
	// entries and for reading by Resolve.
	mu sync.RWMutex

	// entries owns the interned values. Its eviction callback closes them.
	entries *lru.Cache[uint64, *Str]

	capacity int
	onEvict  func(id uint64)
}

// TableOption configures a SymbolTable during construction.
type TableOption func(*SymbolTable)

// WithCapacity bounds the table to n entries. n must be positive.
func WithCapacity(n int) TableOption {
	return func(t *SymbolTable) { t.capacity = n }
}

// WithEvictHook registers fn to run after an entry has been evicted, removed
// or purged, and its Str released. fn runs with the table locked and must not
// call back into it.
func WithEvictHook(fn func(id uint64)) TableOption {
	return func(t *SymbolTable) { t.onEvict = fn }
}

// NewSymbolTable returns an empty table holding up to 4096 entries unless
// WithCapacity says otherwise.
func NewSymbolTable(opts ...TableOption) (*SymbolTable, error) {
	t := &SymbolTable{capacity: defaultTableCapacity}
	for _, opt := range opts {
		opt(t)
	}
	if t.capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, t.capacity)
	}

	cache, err := lru.NewWithEvict[uint64, *Str](t.capacity, t.release)
	if err != nil {
		return nil, err
	}
	t.entries = cache
	return t, nil
}

// release is the LRU eviction callback.
func (t *SymbolTable) release(id uint64, s *Str) {
	_ = s.Close()
	if t.onEvict != nil {
		t.onEvict(id)
	}
}

// Intern stores text, if it is not already present, and returns its
// fingerprint. Interning a text that is already present only refreshes its
// recency.
//
// Intern returns ErrFingerprintCollision when a different text already holds
// the same fingerprint; the stored text is left in place.
func (t *SymbolTable) Intern(text string) (uint64, error) {
	id := farm.Fingerprint64(stob(text))

	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.entries.Get(id); ok {
		if s.String() != text {
			return 0, fmt.Errorf("%w: %016x", ErrFingerprintCollision, id)
		}
		return id, nil
	}

	s := New(text)
	t.entries.Add(id, &s)
	return id, nil
}

// Resolve returns a copy of the text interned under id. The copy stays valid
// after the entry is evicted.
func (t *SymbolTable) Resolve(id uint64) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.entries.Get(id)
	if !ok {
		return "", false
	}
	return strings.Clone(s.String()), true
}

// Contains reports whether id is present without touching its recency.
func (t *SymbolTable) Contains(id uint64) bool { return t.entries.Contains(id) }

// Remove releases the entry for id. It reports whether the entry existed.
func (t *SymbolTable) Remove(id uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries.Remove(id)
}

// Len returns the number of interned entries.
func (t *SymbolTable) Len() int { return t.entries.Len() }

// Close releases every entry. The table stays usable afterwards.
func (t *SymbolTable) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries.Purge()
	return nil
}

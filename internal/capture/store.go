package capture

import (
	"slices"
	"sync"

	"github.com/aleister1102/diffhunter/internal/config"
	"github.com/aleister1102/diffhunter/internal/models"
	"github.com/rs/zerolog"
)

// Store holds captured exchanges in arrival order. IDs are assigned
// sequentially starting at 1 and are never reused, even after eviction.
type Store struct {
	mu         sync.RWMutex
	entries    []models.Exchange
	index      map[int]int
	nextID     int
	maxEntries int
	protected  func(id int) bool
	logger     zerolog.Logger
}

// NewStore creates an empty store capped at cfg.MaxEntries
func NewStore(cfg config.CaptureConfig, logger zerolog.Logger) *Store {
	maxEntries := cfg.MaxEntries
	if maxEntries < config.MinCaptureMaxEntries {
		maxEntries = config.DefaultCaptureMaxEntries
	}
	return &Store{
		index:      make(map[int]int),
		nextID:     1,
		maxEntries: maxEntries,
		logger:     logger.With().Str("component", "CaptureStore").Logger(),
	}
}

// SetProtected installs a predicate for entries that must survive eviction
// in addition to marked ones, typically the selected target.
func (s *Store) SetProtected(fn func(id int) bool) {
	s.mu.Lock()
	s.protected = fn
	s.mu.Unlock()
}

// MaxEntries returns the capacity of the store
func (s *Store) MaxEntries() int {
	return s.maxEntries
}

// Add appends exchanges, assigning each a fresh ID, and returns the copies
// that are still stored once capacity is enforced. Line endings are
// normalized. When the store exceeds its capacity the oldest evictable
// entries are dropped, new ones included, so Len never exceeds MaxEntries
// unless marked and protected entries alone fill the store.
func (s *Store) Add(exchanges ...models.Exchange) []models.Exchange {
	if len(exchanges) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]models.Exchange, 0, len(exchanges))
	for _, ex := range exchanges {
		ex = ex.Normalized()
		ex.ID = s.nextID
		s.nextID++
		s.index[ex.ID] = len(s.entries)
		s.entries = append(s.entries, ex)
		added = append(added, ex)
	}

	if excess := len(s.entries) - s.maxEntries; excess > 0 {
		s.evictOldest(excess)
		added = slices.DeleteFunc(added, func(ex models.Exchange) bool {
			_, ok := s.index[ex.ID]
			return !ok
		})
	}
	return added
}

// evictOldest removes up to count of the oldest entries that are neither
// marked nor protected. Callers hold s.mu.
func (s *Store) evictOldest(count int) {
	kept := s.entries[:0]
	removed := 0
	for _, ex := range s.entries {
		if removed < count && !ex.Marked && (s.protected == nil || !s.protected(ex.ID)) {
			removed++
			continue
		}
		kept = append(kept, ex)
	}
	clear(s.entries[len(kept):])
	s.entries = kept
	s.reindex()

	if removed < count {
		s.logger.Warn().Int("requested", count).Int("removed", removed).Msg("Capture store over capacity, remaining entries are marked or protected")
	} else {
		s.logger.Debug().Int("removed", removed).Msg("Evicted oldest captured exchanges")
	}
}

func (s *Store) reindex() {
	clear(s.index)
	for i, ex := range s.entries {
		s.index[ex.ID] = i
	}
}

// Snapshot returns a copy of all entries in arrival order
func (s *Store) Snapshot() []models.Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Get returns the exchange with the given ID
func (s *Store) Get(id int) (models.Exchange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Exchange{}, false
	}
	return s.entries[i], true
}

// SetMarked flags an exchange so that eviction skips it
func (s *Store) SetMarked(id int, marked bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.entries[i].Marked = marked
	return true
}

// Len returns the number of stored exchanges
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear drops every entry. IDs keep counting from where they were.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	clear(s.index)
}

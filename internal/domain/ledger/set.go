package ledger

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Set records activity ids with at-most-once insertion.
type Set interface {
	// SeenAndRecord atomically checks if id is present and inserts it if not.
	// Returns true if id was already present, false if it was newly recorded.
	SeenAndRecord(id string) bool

	// Unrecord removes id. Only reversible categories call this.
	Unrecord(id string) bool

	Has(id string) bool

	// IDs returns members in insertion order.
	IDs() []string

	Size() int64
}

// idSet is an unbounded, insertion-ordered Set. Completion sets must never
// evict, so unlike a dedupe cache there is no size cap.
type idSet struct {
	mu   sync.RWMutex
	seen map[string]uint64 // id -> insertion sequence
	seq  uint64
	size atomic.Int64
}

// NewSet creates an empty Set.
func NewSet() Set {
	return &idSet{seen: make(map[string]uint64)}
}

func (s *idSet) SeenAndRecord(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[id]; exists {
		return true
	}
	s.seq++
	s.seen[id] = s.seq
	s.size.Add(1)
	return false
}

func (s *idSet) Unrecord(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[id]; !exists {
		return false
	}
	delete(s.seen, id)
	s.size.Add(-1)
	return true
}

func (s *idSet) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[id]
	return ok
}

func (s *idSet) IDs() []string {
	type member struct {
		id  string
		seq uint64
	}
	s.mu.RLock()
	members := make([]member, 0, len(s.seen))
	for id, n := range s.seen {
		members = append(members, member{id: id, seq: n})
	}
	s.mu.RUnlock()

	sort.Slice(members, func(i, j int) bool { return members[i].seq < members[j].seq })
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.id
	}
	return ids
}

func (s *idSet) Size() int64 {
	return s.size.Load()
}

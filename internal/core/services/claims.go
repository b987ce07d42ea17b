package services

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
	"github.com/custodia-labs/pdfren/internal/logger"
)

// ClaimedNameSet is the run-scoped ledger of filenames assigned in one
// output directory. It is seeded once from the directory listing and is
// append-only afterwards. Names compare case-insensitively.
type ClaimedNameSet struct {
	mu       sync.Mutex
	dir      string
	owners   map[string]string // lower-cased name -> path of the file holding it
	counters map[string]int    // lower-cased stem+ext -> next suffix to try
}

// NewClaimedNameSet creates a set for dir whose existing entries are
// treated as claimed by the files that hold them.
func NewClaimedNameSet(dir string, existing []string) *ClaimedNameSet {
	s := &ClaimedNameSet{
		dir:      dir,
		owners:   make(map[string]string, len(existing)),
		counters: make(map[string]int),
	}
	for _, name := range existing {
		s.owners[strings.ToLower(name)] = filepath.Join(dir, name)
	}
	return s
}

// Dir returns the directory the set covers.
func (s *ClaimedNameSet) Dir() string {
	return s.dir
}

// Resolve returns a unique filename for stem+ext and claims it for owner.
// The plain name is accepted when it is unclaimed or already held by
// owner itself; otherwise "stem (n)ext" is tried from n = 1 upward.
// The returned suffix is 0 when no suffix was needed.
func (s *ClaimedNameSet) Resolve(stem, ext, owner string) (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := stem + ext
	if holder, ok := s.owners[strings.ToLower(name)]; !ok || holder == owner {
		s.owners[strings.ToLower(name)] = owner
		return name, 0
	}

	if own, n, ok := s.ownSuffixed(stem, ext, owner); ok {
		return own, n
	}

	base := strings.ToLower(name)
	n := s.counters[base]
	if n < 1 {
		n = 1
	}
	for {
		name = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		key := strings.ToLower(name)
		if holder, ok := s.owners[key]; !ok || holder == owner {
			s.owners[key] = owner
			s.counters[base] = n + 1
			return name, n
		}
		n++
	}
}

// ownSuffixed reports whether owner already sits in the set's directory
// under "stem (n)ext" and still holds that name. The caller holds s.mu.
func (s *ClaimedNameSet) ownSuffixed(stem, ext, owner string) (string, int, bool) {
	if filepath.Dir(owner) != s.dir {
		return "", 0, false
	}
	current := filepath.Base(owner)
	prefix, suffix := stem+" (", ")"+ext
	if len(current) <= len(prefix)+len(suffix) ||
		!strings.EqualFold(current[:len(prefix)], prefix) ||
		!strings.EqualFold(current[len(current)-len(suffix):], suffix) {
		return "", 0, false
	}

	digits := current[len(prefix) : len(current)-len(suffix)]
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || strconv.Itoa(n) != digits {
		return "", 0, false
	}
	if s.owners[strings.ToLower(current)] != owner {
		return "", 0, false
	}

	name := fmt.Sprintf("%s (%d)%s", stem, n, ext)
	s.owners[strings.ToLower(name)] = owner
	return name, n, true
}

// IsClaimed reports whether name is already claimed.
func (s *ClaimedNameSet) IsClaimed(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.owners[strings.ToLower(name)]
	return ok
}

// Len returns the number of claimed names.
func (s *ClaimedNameSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.owners)
}

// Clone returns an independent copy of the set.
func (s *ClaimedNameSet) Clone() *ClaimedNameSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &ClaimedNameSet{
		dir:      s.dir,
		owners:   make(map[string]string, len(s.owners)),
		counters: make(map[string]int, len(s.counters)),
	}
	for k, v := range s.owners {
		c.owners[k] = v
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	return c
}

// claimLedger holds one ClaimedNameSet per output directory of a run.
// Each directory is listed at most once.
type claimLedger struct {
	mu   sync.Mutex
	fs   driven.FileSystem
	sets map[string]*ClaimedNameSet
}

func newClaimLedger(fs driven.FileSystem) *claimLedger {
	return &claimLedger{
		fs:   fs,
		sets: make(map[string]*ClaimedNameSet),
	}
}

// For returns the set for dir, seeding it from disk on first use.
// A directory that cannot be listed starts empty.
func (l *claimLedger) For(dir string) *ClaimedNameSet {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := filepath.Clean(dir)
	if set, ok := l.sets[key]; ok {
		return set
	}

	names, err := l.fs.ListNames(key)
	if err != nil {
		logger.Warn("listing %s for claimed names: %v", key, err)
		names = nil
	}
	set := NewClaimedNameSet(key, names)
	l.sets[key] = set
	return set
}

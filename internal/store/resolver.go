package store

import (
	"sort"
	"strconv"
	"strings"
)

// LogicalPath strips the cycle suffix from a raw entry name ("shower;2"
// becomes "shower"). Names without a suffix pass through unchanged.
func LogicalPath(raw string) string {
	if i := strings.LastIndexByte(raw, ';'); i >= 0 {
		return raw[:i]
	}
	return raw
}

func cycleOf(raw string) int {
	i := strings.LastIndexByte(raw, ';')
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(raw[i+1:])
	if err != nil {
		return 0
	}
	return n
}

// Resolver deduplicates versioned store entries into logical table paths.
// When several entries share a logical path and differ only by cycle, the
// highest cycle is authoritative, regardless of enumeration order.
type Resolver struct {
	paths  []string
	latest map[string]int    // logical path -> highest cycle seen
	entry  map[string]string // logical path -> authoritative raw entry
}

// NewResolver indexes a raw sequence of entry names.
func NewResolver(raw []string) *Resolver {
	r := &Resolver{
		latest: make(map[string]int, len(raw)),
		entry:  make(map[string]string, len(raw)),
	}
	for _, name := range raw {
		path := LogicalPath(name)
		cycle := cycleOf(name)
		prev, seen := r.latest[path]
		if !seen {
			r.paths = append(r.paths, path)
		}
		if !seen || cycle > prev {
			r.latest[path] = cycle
			r.entry[path] = name
		}
	}
	// Sorted, not enumeration order: store enumeration order is not stable
	// across files, and suffix resolution over these paths must not depend
	// on it. With sorted paths a duplicate table-path suffix resolves to the
	// lexicographically last candidate.
	sort.Strings(r.paths)
	return r
}

// Tables returns the deduplicated logical paths, sorted.
func (r *Resolver) Tables() []string { return r.paths }

// Has reports whether a logical path exists in the store.
func (r *Resolver) Has(path string) bool {
	_, ok := r.entry[path]
	return ok
}

// Entry returns the authoritative (highest-cycle) raw entry for a logical
// path.
func (r *Resolver) Entry(path string) (string, bool) {
	e, ok := r.entry[path]
	return e, ok
}

// ResolveName finds the entry matching want, either exactly or as a path
// suffix ("*/want"), so lookups tolerate nesting at unknown depth. Cycle
// suffixes are stripped before matching. When several entries match, the
// last one encountered wins — latest definition wins, kept for
// compatibility with the upstream reader. Zero matches yield ok=false,
// never an error.
func ResolveName(entries []string, want string) (name string, ok bool) {
	suffix := "/" + want
	for _, e := range entries {
		p := LogicalPath(e)
		if p == want || strings.HasSuffix(p, suffix) {
			name, ok = p, true
		}
	}
	return name, ok
}

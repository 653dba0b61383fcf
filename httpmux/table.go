// Package httpmux implements the longest-registered-prefix resource
// dispatch table used to route a request path to a handler, and the
// restrict/permit resource sets the authenticator consults with the same
// rule.
package httpmux

import (
	"sort"
	"strings"
	"sync"
)

// Handler processes a matched request. The context package is
// deliberately not imported here; callers that need cancellation wrap
// Handler themselves (kept minimal to match what the table needs: a
// path in, nothing specific to HTTP back out, since httpserver owns the
// request/response types).
type Handler any

// Table is a resource dispatch table keyed by path prefix, matched by the
// longest registered prefix of the request path — "/a", "/a/b", and
// "/a/bc" registered together means "/a/b/c" dispatches to "/a/b",
// "/a/bx" dispatches to "/a", and "/z" matches nothing.
type Table struct {
	mu      sync.RWMutex
	entries map[string]Handler
	sorted  []string // kept sorted for sort.Search-based prefix lookup
}

// New constructs an empty Table.
func New() *Table {
	return &Table{entries: make(map[string]Handler)}
}

// Register adds or replaces the handler for prefix. A single trailing
// slash is stripped so "/a/" and "/a" register the same entry
// (idempotent registration with or without a trailing slash).
func (t *Table) Register(prefix string, h Handler) {
	prefix = normalize(prefix)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[prefix]; !exists {
		t.sorted = insertSorted(t.sorted, prefix)
	}
	t.entries[prefix] = h
}

// Unregister removes prefix's handler, if any.
func (t *Table) Unregister(prefix string) {
	prefix = normalize(prefix)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[prefix]; !exists {
		return
	}
	delete(t.entries, prefix)
	t.sorted = removeSorted(t.sorted, prefix)
}

// Lookup returns the handler registered for the longest prefix of path,
// and that prefix, or (nil, "", false) if nothing matches. This mirrors
// std::map::upper_bound(path) followed by walking backwards until a
// registered key is found that is actually a prefix of path, implemented
// here with sort.Search over the maintained sorted key slice.
func (t *Table) Lookup(path string) (Handler, string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	// upper_bound: first index whose key is > path.
	idx := sort.Search(len(t.sorted), func(i int) bool {
		return t.sorted[i] > path
	})

	for i := idx - 1; i >= 0; i-- {
		candidate := t.sorted[i]
		if isPrefixMatch(candidate, path) {
			return t.entries[candidate], candidate, true
		}
		// Once a candidate shares no prefix relationship and is
		// shorter than any further-back candidate could still match,
		// keep walking backwards — shorter registered prefixes may
		// still match even if the immediate predecessor key didn't,
		// e.g. table {"/a", "/a/bc"} looking up "/a/bx".
	}
	return nil, "", false
}

// isPrefixMatch reports whether candidate is a path-prefix of path: an
// exact match, or candidate followed by "/" at the boundary, or candidate
// being "/" (root always prefixes everything).
func isPrefixMatch(candidate, path string) bool {
	if candidate == path {
		return true
	}
	if candidate == "/" {
		return true
	}
	if !strings.HasPrefix(path, candidate) {
		return false
	}
	return path[len(candidate)] == '/'
}

func normalize(prefix string) string {
	if len(prefix) > 1 && strings.HasSuffix(prefix, "/") {
		return prefix[:len(prefix)-1]
	}
	if prefix == "" {
		return "/"
	}
	return prefix
}

func insertSorted(keys []string, key string) []string {
	idx := sort.SearchStrings(keys, key)
	keys = append(keys, "")
	copy(keys[idx+1:], keys[idx:])
	keys[idx] = key
	return keys
}

func removeSorted(keys []string, key string) []string {
	idx := sort.SearchStrings(keys, key)
	if idx < len(keys) && keys[idx] == key {
		keys = append(keys[:idx], keys[idx+1:]...)
	}
	return keys
}

// Package filter decides whether an observed clipboard string is genuinely
// new, so the same logical content is never uploaded twice and content the
// user just deleted does not immediately reappear from the OS clipboard.
package filter

import (
	"strings"
	"sync"
)

const (
	// nearDupMinLen is the content length above which the near-duplicate
	// heuristic applies. Short snippets are compared only by exact
	// fingerprint so two distinct 5-character codes are never swallowed.
	nearDupMinLen = 100

	// nearDupMaxRatio is the maximum relative length difference for two
	// long strings to count as the same logical item.
	nearDupMaxRatio = 0.1
)

// Filter maintains two append-only fingerprint sets for the session:
// processed (already uploaded) and blocked (explicitly removed by the user).
// A fingerprint lives in at most one of the two.
type Filter struct {
	mu        sync.Mutex
	processed map[string]struct{}
	blocked   map[string]struct{}
	// order preserves insertion order of processed fingerprints for the
	// substring scan of the near-duplicate heuristic.
	order []string
}

func New() *Filter {
	return &Filter{
		processed: make(map[string]struct{}),
		blocked:   make(map[string]struct{}),
	}
}

// Normalize produces the fingerprint for a content string: surrounding
// whitespace stripped. The empty string is never a valid fingerprint.
func Normalize(content string) string {
	return strings.TrimSpace(content)
}

// ShouldSync reports whether content is worth uploading: non-empty after
// normalization, not blocked, and not already processed (exactly or, for
// long content, nearly).
func (f *Filter) ShouldSync(content string) bool {
	fp := Normalize(content)
	if fp == "" {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.blocked[fp]; ok {
		return false
	}
	if _, ok := f.processed[fp]; ok {
		return false
	}
	if len(fp) > nearDupMinLen && f.hasNearDuplicateLocked(fp) {
		return false
	}
	return true
}

// hasNearDuplicateLocked reports whether fp is a trivial edit of an already
// processed long string: lengths within nearDupMaxRatio of each other and
// one contains the other, case-insensitively.
func (f *Filter) hasNearDuplicateLocked(fp string) bool {
	lower := strings.ToLower(fp)
	for _, prev := range f.order {
		prevLower := strings.ToLower(prev)

		diff := len(lower) - len(prevLower)
		if diff < 0 {
			diff = -diff
		}
		longest := max(len(lower), 1)
		if float64(diff)/float64(longest) >= nearDupMaxRatio {
			continue
		}
		if strings.Contains(lower, prevLower) || strings.Contains(prevLower, lower) {
			return true
		}
	}
	return false
}

// MarkProcessed records content as uploaded. Blocked fingerprints stay
// blocked: a value the user removed is not resurrected by a late upload.
func (f *Filter) MarkProcessed(content string) {
	fp := Normalize(content)
	if fp == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.blocked[fp]; ok {
		return
	}
	if _, ok := f.processed[fp]; ok {
		return
	}
	f.processed[fp] = struct{}{}
	f.order = append(f.order, fp)
}

// MarkBlocked records that the user explicitly removed content. The
// fingerprint leaves the processed set so the invariant "at most one set"
// holds, and stays blocked for the rest of the session.
func (f *Filter) MarkBlocked(content string) {
	fp := Normalize(content)
	if fp == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.blocked[fp] = struct{}{}
	if _, ok := f.processed[fp]; ok {
		delete(f.processed, fp)
		for i, v := range f.order {
			if v == fp {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
	}
}

// Reset clears both sets. Used when the channel or device identity changes.
func (f *Filter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed = make(map[string]struct{})
	f.blocked = make(map[string]struct{})
	f.order = nil
}

// Sizes returns the current number of processed and blocked fingerprints.
func (f *Filter) Sizes() (processed, blocked int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.processed), len(f.blocked)
}

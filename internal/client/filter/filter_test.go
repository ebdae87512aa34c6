package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_ShouldSync_Idempotence(t *testing.T) {
	f := New()

	assert.True(t, f.ShouldSync("hello"))
	assert.True(t, f.ShouldSync("hello"), "no mark yet, still syncable")

	f.MarkProcessed("hello")
	assert.False(t, f.ShouldSync("hello"))

	f.Reset()
	assert.True(t, f.ShouldSync("hello"))
}

func TestFilter_EmptyContentNeverSyncs(t *testing.T) {
	f := New()

	assert.False(t, f.ShouldSync(""))
	assert.False(t, f.ShouldSync("   \n\t "))

	f.MarkProcessed("   ")
	f.MarkBlocked("\n")
	processed, blocked := f.Sizes()
	assert.Zero(t, processed)
	assert.Zero(t, blocked)
}

func TestFilter_TrailingWhitespaceSameFingerprint(t *testing.T) {
	f := New()

	f.MarkProcessed("token-42")
	assert.False(t, f.ShouldSync("token-42 "))
	assert.False(t, f.ShouldSync("\ttoken-42\n"))
}

func TestFilter_BlockedWinsOverProcessed(t *testing.T) {
	f := New()

	f.MarkProcessed("hello")
	f.MarkBlocked("hello")

	processed, blocked := f.Sizes()
	assert.Equal(t, 0, processed, "blocking removes the fingerprint from processed")
	assert.Equal(t, 1, blocked)
	assert.False(t, f.ShouldSync("hello"))

	// A late MarkProcessed (e.g. an upload that raced the delete) must not
	// resurrect the value.
	f.MarkProcessed("hello")
	assert.False(t, f.ShouldSync("hello"))
	processed, _ = f.Sizes()
	assert.Equal(t, 0, processed)
}

func TestFilter_BlockedMatchesOnTrimmedFingerprint(t *testing.T) {
	f := New()

	f.MarkBlocked("secret value")
	assert.False(t, f.ShouldSync("secret value   "))
}

func TestFilter_NearDuplicate_LongContent(t *testing.T) {
	f := New()
	long := strings.Repeat("lorem ipsum ", 17) // ~200 chars

	f.MarkProcessed(long)

	// A trivial punctuation edit of the same long text is a duplicate.
	assert.False(t, f.ShouldSync(long+" (edited)"))
	// Case changes do not defeat the heuristic.
	assert.False(t, f.ShouldSync(strings.ToUpper(long)+"!!"))
	// A long string of similar length but different content is new.
	other := strings.Repeat("dolor sit amet ", 14)
	assert.True(t, f.ShouldSync(other))
}

func TestFilter_NearDuplicate_LengthRatioBound(t *testing.T) {
	f := New()
	base := strings.Repeat("x", 200)
	f.MarkProcessed(base)

	// 10 extra chars on 210 is under the 10% bound: duplicate.
	assert.False(t, f.ShouldSync(base+strings.Repeat("y", 10)))
	// 60 extra chars is well over the bound: new content.
	assert.True(t, f.ShouldSync(base+strings.Repeat("y", 60)))
}

func TestFilter_ShortContentExactMatchOnly(t *testing.T) {
	f := New()

	f.MarkProcessed("ab1de")
	// One character apart but short: distinct snippets, both valid.
	assert.True(t, f.ShouldSync("ab2de"))
	// Substring of a short processed value is still new.
	assert.True(t, f.ShouldSync("ab1d"))
}

func TestFilter_Reset_ClearsBothSets(t *testing.T) {
	f := New()

	f.MarkProcessed("a")
	f.MarkBlocked("b")
	f.Reset()

	processed, blocked := f.Sizes()
	require.Zero(t, processed)
	require.Zero(t, blocked)
	assert.True(t, f.ShouldSync("a"))
	assert.True(t, f.ShouldSync("b"))
}

func TestFilter_EndToEndScenario(t *testing.T) {
	f := New()

	// User copies "hello": cycle 1 uploads it.
	require.True(t, f.ShouldSync("hello"))
	f.MarkProcessed("hello")

	// Same value observed again: no upload.
	require.False(t, f.ShouldSync("hello"))

	// User deletes the entry in the UI.
	f.MarkBlocked("hello")
	processed, blocked := f.Sizes()
	require.Zero(t, processed)
	require.Equal(t, 1, blocked)

	// The OS clipboard still holds "hello"; a focus trigger must not
	// re-upload it.
	assert.False(t, f.ShouldSync("hello"))
}

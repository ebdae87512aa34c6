package cli

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/clipflow-app/clipflow/internal/client/models"
)

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short"))
	assert.Equal(t, "line one line two", preview("line one\nline two"))

	got := preview(strings.Repeat("0123456789", 12))
	assert.Len(t, got, 60)
	assert.Equal(t, "...", got[57:])
}

func TestPreview_MultibyteStaysValid(t *testing.T) {
	got := preview(strings.Repeat("日本語のクリップボード", 10))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 60, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestFromListing(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	app := &App{}

	// No args must not panic, dispatcher guard or not.
	_, ok := app.fromListing(nil)
	assert.False(t, ok)

	// No listing yet.
	_, ok = app.fromListing([]string{"1"})
	assert.False(t, ok)

	app.lastListing = []models.Entry{
		{ID: "a", Content: "first"},
		{ID: "b", Content: "second"},
	}

	e, ok := app.fromListing([]string{"2"})
	assert.True(t, ok)
	assert.Equal(t, "b", e.ID)

	for _, bad := range []string{"0", "3", "x"} {
		_, ok := app.fromListing([]string{bad})
		assert.False(t, ok, "arg %q", bad)
	}

	_, ok = app.fromListing([]string{})
	assert.False(t, ok)
}

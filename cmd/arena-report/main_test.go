// Path: cmd/arena-report/main_test.go
package main

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateKeepsRunesIntact(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "abc…", truncate("abcdef", 4))

	got := truncate("Hakätä Finänce Prötöcöl", 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "Hakätä Fi…", got)
}

func TestParseTeamSize(t *testing.T) {
	r, ok := parseTeamSize("3")
	assert.True(t, ok)
	assert.Equal(t, [2]int{3, 3}, r)

	r, ok = parseTeamSize("2-8")
	assert.True(t, ok)
	assert.Equal(t, [2]int{2, 8}, r)

	for _, bad := range []string{"", "0", "8-2", "x-y"} {
		_, ok = parseTeamSize(bad)
		assert.False(t, ok, bad)
	}
}

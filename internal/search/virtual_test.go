// Path: internal/search/virtual_test.go
package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldVirtualize(t *testing.T) {
	assert.False(t, ShouldVirtualize(100))
	assert.True(t, ShouldVirtualize(101))
}

func TestVisibleWindow(t *testing.T) {
	// 600px viewport, 40px rows, 3 rows overscan, scrolled to row 10.
	start, end := VisibleWindow(400, 600, 40, 3, 500)
	assert.Equal(t, 7, start)
	assert.Equal(t, 28, end)

	// Clamped at the top and bottom.
	start, end = VisibleWindow(0, 600, 40, 3, 500)
	assert.Equal(t, 0, start)
	start, end = VisibleWindow(100000, 600, 40, 3, 500)
	assert.LessOrEqual(t, end, 500)
	assert.LessOrEqual(t, start, end)

	start, end = VisibleWindow(0, 600, 40, 3, 0)
	assert.Zero(t, start)
	assert.Zero(t, end)
}

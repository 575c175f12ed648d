// Path: internal/search/virtual.go
package search

// VirtualizeThreshold is the result-set size above which the rendering
// layer should switch from rendering every row to a windowed list.
const VirtualizeThreshold = 100

// ShouldVirtualize reports whether a result set is large enough to warrant
// windowed rendering.
func ShouldVirtualize(resultCount int) bool {
	return resultCount > VirtualizeThreshold
}

// VisibleWindow computes the half-open row range [start, end) the renderer
// should materialize for the current scroll position, padded by overscan
// rows on both sides and clamped to the result set.
func VisibleWindow(scrollTop, viewportHeight, rowHeight, overscan, total int) (start, end int) {
	if rowHeight <= 0 || total <= 0 {
		return 0, 0
	}
	start = scrollTop/rowHeight - overscan
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	visible := (viewportHeight + rowHeight - 1) / rowHeight
	end = start + visible + 2*overscan
	if end > total {
		end = total
	}
	return start, end
}

package diag

import (
	"sync"

	"faraday/internal/source"
)

// The marker tracks the last visited source position so errors raised deep
// inside lookups can still point at user code. Updated by the driver on
// every node.
var marker struct {
	mu   sync.Mutex
	path string
	pos  source.LineCol
}

// SetMarker records the position of the node currently being compiled.
func SetMarker(path string, pos source.LineCol) {
	marker.mu.Lock()
	defer marker.mu.Unlock()
	marker.path = path
	marker.pos = pos
}

// Marker returns the last recorded position.
func Marker() (string, source.LineCol) {
	marker.mu.Lock()
	defer marker.mu.Unlock()
	return marker.path, marker.pos
}

// ResetMarker clears the marker. Tests use this to keep positions
// deterministic.
func ResetMarker() {
	SetMarker("", source.LineCol{})
}

package module

import "sync"

// Process-wide port registry used during bootstrap in main.
// Single process composition only, no lifecycle beyond Reset for tests
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores a port set under a module name, last write wins
func Register(name string, ports any) {
	mu.Lock()
	defer mu.Unlock()
	reg[name] = ports
}

// PortsAs fetches and type asserts a port set for name
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, found := reg[name]
	mu.RUnlock()
	if !found {
		var zero T
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// Reset clears the registry for tests
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	reg = map[string]any{}
}

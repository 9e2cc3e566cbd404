// Package repository defines the competition store interface and errors.
package repository

// MemOption applies a configuration option to the MemStore.
type MemOption func(*MemStore)

// WithIDGenerator overrides ID assignment, mainly for deterministic tests.
func WithIDGenerator(fn func() string) MemOption {
	return func(s *MemStore) {
		if fn != nil {
			s.idFn = fn
		}
	}
}

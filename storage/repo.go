// Package storage defines the durable local key-value collaborator used for
// onboarding draft persistence and the saved session token. The core only
// needs get/set/delete semantics; what sits behind them is an implementation
// detail of the host platform.
package storage

// KV is the durable key-value store boundary.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

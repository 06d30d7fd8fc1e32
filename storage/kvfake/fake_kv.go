package kvfake

import (
	"sync"

	"github.com/notagain-app/notagain-core/storage"
)

var _ storage.KV = (*FakeKV)(nil)

// FakeKV is an in-memory key-value store for tests. Optional error hooks
// simulate persistence failures.
type FakeKV struct {
	lock   sync.RWMutex
	values map[string][]byte

	// SetErr, when non-nil, is returned by every Set call.
	SetErr error
	// GetErr, when non-nil, is returned by every Get call.
	GetErr error
}

func NewFakeKV() *FakeKV {
	return &FakeKV{values: make(map[string][]byte)}
}

func (kv *FakeKV) Get(key string) ([]byte, bool, error) {
	if kv.GetErr != nil {
		return nil, false, kv.GetErr
	}
	kv.lock.RLock()
	defer kv.lock.RUnlock()

	value, ok := kv.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (kv *FakeKV) Set(key string, value []byte) error {
	if kv.SetErr != nil {
		return kv.SetErr
	}
	kv.lock.Lock()
	defer kv.lock.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	kv.values[key] = stored
	return nil
}

func (kv *FakeKV) Delete(key string) error {
	kv.lock.Lock()
	defer kv.lock.Unlock()

	delete(kv.values, key)
	return nil
}

// Len reports the number of stored keys.
func (kv *FakeKV) Len() int {
	kv.lock.RLock()
	defer kv.lock.RUnlock()
	return len(kv.values)
}

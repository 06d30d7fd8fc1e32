package enforcerfake

import (
	"context"
	"sync"

	"github.com/notagain-app/notagain-core/blocking"
)

var _ blocking.Enforcer = (*FakeEnforcer)(nil)

// FakeEnforcer records block/unblock calls in memory.
type FakeEnforcer struct {
	lock    sync.Mutex
	blocked map[string]bool

	// PermissionGranted is returned by RequestPermission.
	PermissionGranted bool
	// BlockErr, when non-nil, fails every BlockApp call.
	BlockErr error
}

func NewFakeEnforcer() *FakeEnforcer {
	return &FakeEnforcer{
		blocked:           make(map[string]bool),
		PermissionGranted: true,
	}
}

func (e *FakeEnforcer) BlockApp(_ context.Context, appID string) error {
	if e.BlockErr != nil {
		return e.BlockErr
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	e.blocked[appID] = true
	return nil
}

func (e *FakeEnforcer) UnblockApp(_ context.Context, appID string) error {
	e.lock.Lock()
	defer e.lock.Unlock()
	delete(e.blocked, appID)
	return nil
}

func (e *FakeEnforcer) RequestPermission(_ context.Context, _ string) (bool, error) {
	return e.PermissionGranted, nil
}

// Blocked reports whether an app is currently blocked.
func (e *FakeEnforcer) Blocked(appID string) bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.blocked[appID]
}

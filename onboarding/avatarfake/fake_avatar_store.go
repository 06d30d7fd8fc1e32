package avatarfake

import (
	"context"
	"sync"

	"github.com/notagain-app/notagain-core/onboarding"
)

var _ onboarding.AvatarStore = (*FakeAvatarStore)(nil)

// FakeAvatarStore records uploads in memory.
type FakeAvatarStore struct {
	lock    sync.Mutex
	uploads map[string]string // userID -> stored ref

	// UploadErr, when non-nil, fails every Upload call.
	UploadErr error
}

func NewFakeAvatarStore() *FakeAvatarStore {
	return &FakeAvatarStore{uploads: make(map[string]string)}
}

func (s *FakeAvatarStore) Upload(_ context.Context, userID, localRef string) (string, error) {
	if s.UploadErr != nil {
		return "", s.UploadErr
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	stored := "avatars/" + userID + "/" + localRef
	s.uploads[userID] = stored
	return stored, nil
}

// Uploaded returns the stored reference for a user, for test assertions.
func (s *FakeAvatarStore) Uploaded(userID string) (string, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	ref, ok := s.uploads[userID]
	return ref, ok
}

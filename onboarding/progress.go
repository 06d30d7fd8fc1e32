package onboarding

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/notagain-app/notagain-core/storage"
)

// Step is the wizard position, 1-indexed.
type Step int

const (
	// Step1 captures the required display name.
	Step1 Step = 1
	// Step2 captures the optional profile picture.
	Step2 Step = 2
)

// Progress is the durable draft state of the wizard. It survives app
// restarts and re-login so an abandoned flow resumes where it stopped.
type Progress struct {
	CurrentStep Step   `json:"current_step"`
	Name        string `json:"name,omitempty"`
	AvatarRef   string `json:"avatar_ref,omitempty"`
}

const progressKeyPrefix = "onboarding/progress/"

// ProgressStore persists onboarding drafts to local storage, keyed per
// user id so drafts never leak across accounts on a shared device.
type ProgressStore struct {
	kv storage.KV
}

// NewProgressStore creates a progress store over the given storage.
func NewProgressStore(kv storage.KV) (*ProgressStore, error) {
	if kv == nil {
		return nil, errors.New("[NewProgressStore] kv storage is required")
	}
	return &ProgressStore{kv: kv}, nil
}

// Load returns the persisted draft for a user, if any.
func (ps *ProgressStore) Load(userID string) (Progress, bool, error) {
	raw, ok, err := ps.kv.Get(progressKeyPrefix + userID)
	if err != nil {
		return Progress{}, false, errors.Wrap(err, "[ProgressStore.Load] read draft")
	}
	if !ok {
		return Progress{}, false, nil
	}

	var p Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt draft restarts the flow rather than wedging it.
		return Progress{}, false, nil
	}
	if p.CurrentStep < Step1 || p.CurrentStep > Step2 {
		return Progress{}, false, nil
	}
	return p, true, nil
}

// Save writes the draft for a user.
func (ps *ProgressStore) Save(userID string, p Progress) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "[ProgressStore.Save] encode draft")
	}
	if err := ps.kv.Set(progressKeyPrefix+userID, raw); err != nil {
		return errors.Wrap(err, "[ProgressStore.Save] write draft")
	}
	return nil
}

// Clear removes the draft for a user.
func (ps *ProgressStore) Clear(userID string) error {
	return ps.kv.Delete(progressKeyPrefix + userID)
}

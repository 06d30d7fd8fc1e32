// Package onboarding drives the two-step profile wizard: required name,
// optional picture. Draft state is persisted after every mutation so the
// flow resumes correctly after the app is killed or the user backs out.
package onboarding

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	apperrors "github.com/notagain-app/notagain-core/internal/errors"
	"github.com/notagain-app/notagain-core/session"
)

// Flow is the wizard state machine for one authenticated user. Steps move
// one at a time: Next and Previous never jump, Complete is reachable only
// from Step2. The single exception is the federated prefill shortcut in
// Enter, where a provider already supplied both fields and no step needs
// rendering at all.
type Flow struct {
	sessions *session.Service
	progress *ProgressStore
	avatars  AvatarStore

	userID    string
	current   Progress
	completed bool

	// Non-fatal failure uploading the optional picture during the last
	// Complete call. Surfaced for user feedback, never blocks completion.
	avatarUploadErr error
}

// NewFlow initializes the wizard with its collaborators.
func NewFlow(sessions *session.Service, progress *ProgressStore, avatars AvatarStore) (*Flow, error) {
	if sessions == nil {
		return nil, errors.New("[NewFlow] session service is required")
	}
	if progress == nil {
		return nil, errors.New("[NewFlow] progress store is required")
	}
	if avatars == nil {
		return nil, errors.New("[NewFlow] avatar store is required")
	}
	return &Flow{
		sessions: sessions,
		progress: progress,
		avatars:  avatars,
	}, nil
}

// Enter starts or resumes the wizard for the current session. A persisted
// draft wins over starting fresh; federated prefill fills empty fields;
// and when the provider already supplied both name and picture with no
// draft outstanding, the flow completes without rendering a step.
func (f *Flow) Enter(ctx context.Context) error {
	state := f.sessions.Store().Snapshot()
	if !state.Authenticated {
		return apperrors.ErrNotAuthenticated
	}
	if state.OnboardingCompleted {
		f.completed = true
		return nil
	}

	f.userID = state.UserID
	f.completed = false
	f.avatarUploadErr = nil

	draft, resumed, err := f.progress.Load(state.UserID)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load onboarding draft, starting fresh")
		resumed = false
	}
	if resumed {
		f.current = draft
		return nil
	}

	f.current = Progress{
		CurrentStep: Step1,
		Name:        state.PrefillName,
		AvatarRef:   state.PrefillAvatarRef,
	}

	// Full federated prefill bypasses the wizard entirely.
	if f.current.Name != "" && f.current.AvatarRef != "" {
		return f.complete(ctx, false)
	}

	f.persist()
	return nil
}

// Step returns the current wizard position.
func (f *Flow) Step() Step {
	return f.current.CurrentStep
}

// Completed reports whether the flow has finished.
func (f *Flow) Completed() bool {
	return f.completed
}

// Name returns the draft name.
func (f *Flow) Name() string {
	return f.current.Name
}

// AvatarRef returns the draft picture reference.
func (f *Flow) AvatarRef() string {
	return f.current.AvatarRef
}

// SetName records the required field and persists the draft.
func (f *Flow) SetName(name string) {
	f.current.Name = name
	f.persist()
}

// SetAvatarRef records the optional field and persists the draft.
func (f *Flow) SetAvatarRef(ref string) {
	f.current.AvatarRef = ref
	f.persist()
}

// Next advances Step1 to Step2. The required name must be non-empty.
func (f *Flow) Next() error {
	if f.current.CurrentStep != Step1 {
		return apperrors.ErrInvalidStep
	}
	if f.current.Name == "" {
		return apperrors.ErrNameRequired
	}
	f.current.CurrentStep = Step2
	f.persist()
	return nil
}

// Previous retreats Step2 to Step1 without losing draft data.
func (f *Flow) Previous() error {
	if f.current.CurrentStep != Step2 {
		return apperrors.ErrInvalidStep
	}
	f.current.CurrentStep = Step1
	f.persist()
	return nil
}

// Complete finishes the wizard from Step2. The optional picture may be
// skipped. A failed upload of the picture is reported through
// AvatarUploadErr but does not block completion; a failed backend call
// returns an error, leaves the onboarding flag false and keeps the user
// on Step2 to retry.
func (f *Flow) Complete(ctx context.Context, skipAvatar bool) error {
	if f.current.CurrentStep != Step2 {
		return apperrors.ErrInvalidStep
	}
	return f.complete(ctx, skipAvatar)
}

// Abandon persists the current draft and leaves the flow. The session
// stays authenticated and the onboarding flag stays false; the next entry
// resumes from the persisted step.
func (f *Flow) Abandon() {
	f.persist()
}

// AvatarUploadErr returns the non-fatal upload failure from the last
// completion, if any.
func (f *Flow) AvatarUploadErr() error {
	return f.avatarUploadErr
}

func (f *Flow) complete(ctx context.Context, skipAvatar bool) error {
	f.avatarUploadErr = nil

	fields := session.ProfileFields{Name: f.current.Name}
	if !skipAvatar && f.current.AvatarRef != "" {
		stored, err := f.avatars.Upload(ctx, f.userID, f.current.AvatarRef)
		if err != nil {
			log.Warn().Err(err).Msg("avatar upload failed, completing onboarding without it")
			f.avatarUploadErr = err
		} else {
			fields.AvatarRef = stored
		}
	}

	if err := f.sessions.CompleteOnboarding(ctx, fields); err != nil {
		return errors.Wrap(err, "[Flow.complete] complete onboarding")
	}

	if err := f.progress.Clear(f.userID); err != nil {
		log.Warn().Err(err).Msg("failed to clear onboarding draft")
	}
	f.completed = true
	return nil
}

// persist writes the draft best effort. A storage failure is invisible to
// the user; the in-memory flow still advances.
func (f *Flow) persist() {
	if err := f.progress.Save(f.userID, f.current); err != nil {
		log.Warn().Err(err).Msg("failed to persist onboarding draft")
	}
}

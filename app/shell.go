// Package app is the composition root: it wires the session service, route
// registry, guard, navigation controller and onboarding flow into the
// running shell, and exposes the operations the UI layer calls.
package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/notagain-app/notagain-core/guard"
	"github.com/notagain-app/notagain-core/navstack"
	"github.com/notagain-app/notagain-core/onboarding"
	"github.com/notagain-app/notagain-core/routes"
	"github.com/notagain-app/notagain-core/session"
)

// Shell drives the app: session transitions commit through replace-all,
// screen progression through push, and both back affordances through the
// controller's single pop path.
type Shell struct {
	registry *routes.Registry
	sessions *session.Service
	flow     *onboarding.Flow
	nav      *navstack.Controller
}

// New wires the shell. The renderer is optional; passing nil runs the
// shell headless, which the tests rely on.
func New(sessions *session.Service, flow *onboarding.Flow, renderer routes.Renderer) (*Shell, error) {
	if sessions == nil {
		return nil, errors.New("[app.New] session service is required")
	}
	if flow == nil {
		return nil, errors.New("[app.New] onboarding flow is required")
	}

	registry, err := DefaultRegistry()
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] build registry")
	}
	evaluator, err := guard.NewEvaluator(registry)
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] build evaluator")
	}

	var opts []navstack.ControllerOption
	if renderer != nil {
		opts = append(opts, navstack.WithRenderer(renderer))
	}
	nav, err := navstack.NewController(registry, evaluator, sessions.Store(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] build controller")
	}

	return &Shell{
		registry: registry,
		sessions: sessions,
		flow:     flow,
		nav:      nav,
	}, nil
}

// Nav returns the navigation controller.
func (s *Shell) Nav() *navstack.Controller {
	return s.nav
}

// Launch restores any persisted session and lands on the destination the
// guard resolves for it. A restored mid-onboarding session resumes the
// wizard where it stopped.
func (s *Shell) Launch(ctx context.Context) error {
	state := s.sessions.Restore()
	log.Info().Bool("authenticated", state.Authenticated).Msg("session restored")
	return s.landFor(ctx)
}

// Login authenticates and commits the post-auth transition. On failure no
// navigation occurs; the caller surfaces the error on the current screen.
func (s *Shell) Login(ctx context.Context, email, password string) error {
	if _, err := s.sessions.Login(ctx, email, password); err != nil {
		return err
	}
	return s.landFor(ctx)
}

// Signup registers a fresh account; a new account always lands in
// onboarding.
func (s *Shell) Signup(ctx context.Context, email, password string) error {
	if _, err := s.sessions.Signup(ctx, email, password); err != nil {
		return err
	}
	return s.landFor(ctx)
}

// FederatedLogin signs in through a provider. When the provider supplies
// both profile fields the onboarding flow completes without rendering a
// step and the user lands straight on the main app.
func (s *Shell) FederatedLogin(ctx context.Context, provider string) error {
	if _, err := s.sessions.FederatedLogin(ctx, provider); err != nil {
		return err
	}
	return s.landFor(ctx)
}

// Logout clears the session and replaces the stack with the public entry.
func (s *Shell) Logout(ctx context.Context) error {
	if err := s.sessions.Logout(ctx); err != nil {
		return err
	}
	s.nav.RequestReplaceAll(RouteWelcome, nil)
	return nil
}

// Navigate requests a push to a screen: user taps and deep links both
// enter here, and the guard decides whether the destination stands.
func (s *Shell) Navigate(path string, params routes.Params) navstack.Entry {
	return s.nav.RequestPush(path, params)
}

// Back is the explicit back control.
func (s *Shell) Back() bool {
	return s.pop(s.nav.RequestPop)
}

// BackGesture is the platform back-swipe. Identical pop path as Back; the
// gesture is ignored on Root screens.
func (s *Shell) BackGesture() bool {
	return s.pop(s.nav.GesturePop)
}

// pop commits one back affordance and keeps the wizard in step with the
// stack: popping the picture screen retreats the flow, so the name screen
// left on top matches Step1 whichever affordance triggered the pop.
func (s *Shell) pop(popFn func() bool) bool {
	top := s.nav.Top()
	if !popFn() {
		return false
	}
	if top.Route.Path == RouteOnboardingPicture {
		if err := s.flow.Previous(); err != nil {
			log.Warn().Err(err).Msg("wizard step already behind the popped screen")
		}
	}
	return true
}

// Onboarding returns the wizard for the onboarding screens to drive.
func (s *Shell) Onboarding() *onboarding.Flow {
	return s.flow
}

// OnboardingNext advances the wizard and pushes the picture step.
func (s *Shell) OnboardingNext() error {
	if err := s.flow.Next(); err != nil {
		return err
	}
	s.nav.RequestPush(RouteOnboardingPicture, nil)
	return nil
}

// OnboardingBack retreats the wizard and pops back to the name step.
func (s *Shell) OnboardingBack() error {
	if err := s.flow.Previous(); err != nil {
		return err
	}
	s.nav.RequestPop()
	return nil
}

// OnboardingComplete finishes the wizard and commits the transition to
// the main app. A backend failure keeps the user on the current step to
// retry.
func (s *Shell) OnboardingComplete(ctx context.Context, skipAvatar bool) error {
	if err := s.flow.Complete(ctx, skipAvatar); err != nil {
		return err
	}
	s.nav.RequestReplaceAll(RouteHome, nil)
	return nil
}

// OnboardingAbandon persists the draft and leaves the user signed in. The
// next entry into onboarding resumes from the saved step.
func (s *Shell) OnboardingAbandon() {
	s.flow.Abandon()
}

// landFor commits the replace-all transition for the current session
// state. Requesting the main entry and letting the guard redirect keeps
// one code path for all three states. A mid-onboarding session also
// enters the wizard so it resumes (or auto-completes from prefill).
func (s *Shell) landFor(ctx context.Context) error {
	state := s.sessions.Store().Snapshot()
	if !state.Authenticated {
		s.nav.RequestReplaceAll(RouteWelcome, nil)
		return nil
	}

	if !state.OnboardingCompleted {
		if err := s.flow.Enter(ctx); err != nil {
			return errors.Wrap(err, "[Shell.landFor] enter onboarding")
		}
	}

	s.nav.RequestReplaceAll(RouteHome, nil)
	if !s.sessions.Store().Snapshot().OnboardingCompleted && s.flow.Step() == onboarding.Step2 {
		s.nav.RequestPush(RouteOnboardingPicture, nil)
	}
	return nil
}

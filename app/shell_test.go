package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notagain-app/notagain-core/app"
	apperrors "github.com/notagain-app/notagain-core/internal/errors"
	"github.com/notagain-app/notagain-core/onboarding"
	"github.com/notagain-app/notagain-core/onboarding/avatarfake"
	"github.com/notagain-app/notagain-core/session"
	"github.com/notagain-app/notagain-core/session/backendfake"
	"github.com/notagain-app/notagain-core/storage/kvfake"
)

const (
	testEmail    = "bo@example.com"
	testPassword = "Password123"
)

type shellFixture struct {
	backend *backendfake.FakeBackend
	kv      *kvfake.FakeKV
	service *session.Service
	shell   *app.Shell
}

func setupShell(t *testing.T) *shellFixture {
	f := &shellFixture{
		backend: backendfake.NewFakeBackend(),
		kv:      kvfake.NewFakeKV(),
	}
	f.restart(t)
	return f
}

// restart rebuilds the whole shell over the same storage and backend,
// simulating the app process being killed and relaunched.
func (f *shellFixture) restart(t *testing.T) {
	t.Helper()

	tokens, err := session.NewTokenStore(f.kv, []byte("test-secret"))
	require.NoError(t, err)
	f.service, err = session.NewService(f.backend, session.NewStore(), tokens)
	require.NoError(t, err)

	progress, err := onboarding.NewProgressStore(f.kv)
	require.NoError(t, err)
	flow, err := onboarding.NewFlow(f.service, progress, avatarfake.NewFakeAvatarStore())
	require.NoError(t, err)

	f.shell, err = app.New(f.service, flow, nil)
	require.NoError(t, err)
}

func (f *shellFixture) topPath(t *testing.T) string {
	t.Helper()
	return f.shell.Nav().Top().Route.Path
}

// TestLaunch_NoSessionLandsOnWelcome tests a cold start with nothing persisted
func TestLaunch_NoSessionLandsOnWelcome(t *testing.T) {
	f := setupShell(t)

	require.NoError(t, f.shell.Launch(context.Background()))

	require.Equal(t, app.RouteWelcome, f.topPath(t))
	require.Equal(t, 1, f.shell.Nav().Stack().Depth())
}

// TestSignupThroughOnboarding_EndToEnd walks a fresh signup through both
// wizard steps to the main app.
func TestSignupThroughOnboarding_EndToEnd(t *testing.T) {
	f := setupShell(t)
	require.NoError(t, f.shell.Launch(context.Background()))

	require.NoError(t, f.shell.Signup(context.Background(), testEmail, testPassword))
	require.Equal(t, app.RouteOnboardingName, f.topPath(t))
	require.Equal(t, 1, f.shell.Nav().Stack().Depth(), "transition replaces, never stacks")

	f.shell.Onboarding().SetName("Bo")
	require.NoError(t, f.shell.OnboardingNext())
	require.Equal(t, app.RouteOnboardingPicture, f.topPath(t))
	require.Equal(t, 2, f.shell.Nav().Stack().Depth())

	require.NoError(t, f.shell.OnboardingComplete(context.Background(), true))
	require.Equal(t, app.RouteHome, f.topPath(t))
	require.Equal(t, 1, f.shell.Nav().Stack().Depth(), "completion clears onboarding history")
	require.True(t, f.service.Store().Snapshot().OnboardingCompleted)
}

// TestOnboardingNext_WithoutNameStaysPut tests the required-field gate at
// the shell level.
func TestOnboardingNext_WithoutNameStaysPut(t *testing.T) {
	f := setupShell(t)
	require.NoError(t, f.shell.Launch(context.Background()))
	require.NoError(t, f.shell.Signup(context.Background(), testEmail, testPassword))

	err := f.shell.OnboardingNext()

	require.True(t, errors.Is(err, apperrors.ErrNameRequired))
	require.Equal(t, app.RouteOnboardingName, f.topPath(t))
}

// TestOnboardingBack_ReturnsToNameStep tests the wizard back affordance
func TestOnboardingBack_ReturnsToNameStep(t *testing.T) {
	f := setupShell(t)
	require.NoError(t, f.shell.Launch(context.Background()))
	require.NoError(t, f.shell.Signup(context.Background(), testEmail, testPassword))

	f.shell.Onboarding().SetName("Bo")
	require.NoError(t, f.shell.OnboardingNext())
	require.NoError(t, f.shell.OnboardingBack())

	require.Equal(t, app.RouteOnboardingName, f.topPath(t))
	require.Equal(t, "Bo", f.shell.Onboarding().Name(), "draft survives going back")
}

// TestBackGesture_OnPictureStepRetreatsWizard tests that the back-swipe on
// the picture step keeps the wizard and the stack in step: the name screen
// left on top must be on Step1 and Next must work again.
func TestBackGesture_OnPictureStepRetreatsWizard(t *testing.T) {
	f := setupShell(t)
	require.NoError(t, f.shell.Launch(context.Background()))
	require.NoError(t, f.shell.Signup(context.Background(), testEmail, testPassword))

	f.shell.Onboarding().SetName("Bo")
	require.NoError(t, f.shell.OnboardingNext())

	require.True(t, f.shell.BackGesture())

	require.Equal(t, app.RouteOnboardingName, f.topPath(t))
	require.Equal(t, onboarding.Step1, f.shell.Onboarding().Step())
	require.Equal(t, "Bo", f.shell.Onboarding().Name())

	// The visible name screen can advance again.
	require.NoError(t, f.shell.OnboardingNext())
	require.Equal(t, app.RouteOnboardingPicture, f.topPath(t))
	require.Equal(t, onboarding.Step2, f.shell.Onboarding().Step())
}

// TestBack_OnPictureStepRetreatsWizard tests the explicit back control over
// the same screen, which must behave identically to the gesture.
func TestBack_OnPictureStepRetreatsWizard(t *testing.T) {
	f := setupShell(t)
	require.NoError(t, f.shell.Launch(context.Background()))
	require.NoError(t, f.shell.Signup(context.Background(), testEmail, testPassword))

	f.shell.Onboarding().SetName("Bo")
	require.NoError(t, f.shell.OnboardingNext())

	require.True(t, f.shell.Back())

	require.Equal(t, app.RouteOnboardingName, f.topPath(t))
	require.Equal(t, onboarding.Step1, f.shell.Onboarding().Step())

	// An abandon right after going back persists Step1, not Step2.
	f.shell.OnboardingAbandon()
	f.restart(t)
	require.NoError(t, f.shell.Launch(context.Background()))
	require.Equal(t, app.RouteOnboardingName, f.topPath(t))
	require.Equal(t, onboarding.Step1, f.shell.Onboarding().Step())
	require.Equal(t, "Bo", f.shell.Onboarding().Name())
}

// TestFederatedLogin_FullPrefillSkipsOnboarding tests that a provider
// supplying name and picture lands straight on the main app.
func TestFederatedLogin_FullPrefillSkipsOnboarding(t *testing.T) {
	f := setupShell(t)
	f.backend.SeedFederated("apple", backendfake.FederatedIdentity{
		Email:     "cy@example.com",
		Name:      "Cy",
		AvatarRef: "x",
	})
	require.NoError(t, f.shell.Launch(context.Background()))

	require.NoError(t, f.shell.FederatedLogin(context.Background(), "apple"))

	require.Equal(t, app.RouteHome, f.topPath(t))
	require.True(t, f.service.Store().Snapshot().OnboardingCompleted)
}

// TestFederatedLogin_PartialPrefillLandsInOnboarding tests that a name-only
// provider still walks the wizard, prefilled.
func TestFederatedLogin_PartialPrefillLandsInOnboarding(t *testing.T) {
	f := setupShell(t)
	f.backend.SeedFederated("apple", backendfake.FederatedIdentity{
		Email: "cy@example.com",
		Name:  "Cy",
	})
	require.NoError(t, f.shell.Launch(context.Background()))

	require.NoError(t, f.shell.FederatedLogin(context.Background(), "apple"))

	require.Equal(t, app.RouteOnboardingName, f.topPath(t))
	require.Equal(t, "Cy", f.shell.Onboarding().Name())
}

// TestAbandonAndRelaunch_ResumesMidOnboarding tests resume across a process
// restart: the relaunched app lands back on the saved step with the draft.
func TestAbandonAndRelaunch_ResumesMidOnboarding(t *testing.T) {
	f := setupShell(t)
	require.NoError(t, f.shell.Launch(context.Background()))
	require.NoError(t, f.shell.Signup(context.Background(), testEmail, testPassword))

	f.shell.Onboarding().SetName("Dee")
	require.NoError(t, f.shell.OnboardingNext())
	f.shell.OnboardingAbandon()

	f.restart(t)
	require.NoError(t, f.shell.Launch(context.Background()))

	require.Equal(t, app.RouteOnboardingPicture, f.topPath(t))
	require.Equal(t, onboarding.Step2, f.shell.Onboarding().Step())
	require.Equal(t, "Dee", f.shell.Onboarding().Name())

	// Back still works after resume.
	require.NoError(t, f.shell.OnboardingBack())
	require.Equal(t, app.RouteOnboardingName, f.topPath(t))
}

// TestRelaunch_OnboardedSessionLandsHome tests session restore for a
// finished account.
func TestRelaunch_OnboardedSessionLandsHome(t *testing.T) {
	f := setupShell(t)
	require.NoError(t, f.shell.Launch(context.Background()))
	require.NoError(t, f.shell.Signup(context.Background(), testEmail, testPassword))
	f.shell.Onboarding().SetName("Bo")
	require.NoError(t, f.shell.OnboardingNext())
	require.NoError(t, f.shell.OnboardingComplete(context.Background(), true))

	f.restart(t)
	require.NoError(t, f.shell.Launch(context.Background()))

	require.Equal(t, app.RouteHome, f.topPath(t))
}

// TestNavigate_DeepLinkRedirectsWhileLoggedOut tests that guarded targets
// collapse to the public entry.
func TestNavigate_DeepLinkRedirectsWhileLoggedOut(t *testing.T) {
	f := setupShell(t)
	require.NoError(t, f.shell.Launch(context.Background()))

	f.shell.Navigate(app.RouteRules, nil)

	require.Equal(t, app.RouteWelcome, f.topPath(t))
	require.Equal(t, 1, f.shell.Nav().Stack().Depth())
}

// TestNavigate_OnboardedUserCannotReenterOnboarding tests redirect for a
// finished account deep-linking back into the wizard.
func TestNavigate_OnboardedUserCannotReenterOnboarding(t *testing.T) {
	f := setupShell(t)
	_, err := f.backend.SeedAccount(testEmail, testPassword, true)
	require.NoError(t, err)
	require.NoError(t, f.shell.Launch(context.Background()))
	require.NoError(t, f.shell.Login(context.Background(), testEmail, testPassword))

	f.shell.Navigate(app.RouteOnboardingName, nil)

	require.Equal(t, app.RouteHome, f.topPath(t))
}

// TestBackAndGesture_ShareOnePopPath tests both back affordances over the
// same stack.
func TestBackAndGesture_ShareOnePopPath(t *testing.T) {
	f := setupShell(t)
	_, err := f.backend.SeedAccount(testEmail, testPassword, true)
	require.NoError(t, err)
	require.NoError(t, f.shell.Launch(context.Background()))
	require.NoError(t, f.shell.Login(context.Background(), testEmail, testPassword))

	f.shell.Navigate(app.RouteRules, nil)
	f.shell.Navigate(app.RouteRuleEdit, nil)
	require.Equal(t, 3, f.shell.Nav().Stack().Depth())

	require.True(t, f.shell.BackGesture())
	require.Equal(t, app.RouteRules, f.topPath(t))

	require.True(t, f.shell.Back())
	require.Equal(t, app.RouteHome, f.topPath(t))

	// Home is a root screen: gesture is disabled, explicit back is a no-op.
	require.False(t, f.shell.BackGesture())
	require.False(t, f.shell.Back())
	require.Equal(t, 1, f.shell.Nav().Stack().Depth())
}

// TestLogout_ReplacesStackWithWelcome tests that sign-out clears history
func TestLogout_ReplacesStackWithWelcome(t *testing.T) {
	f := setupShell(t)
	_, err := f.backend.SeedAccount(testEmail, testPassword, true)
	require.NoError(t, err)
	require.NoError(t, f.shell.Launch(context.Background()))
	require.NoError(t, f.shell.Login(context.Background(), testEmail, testPassword))
	f.shell.Navigate(app.RouteSettings, nil)

	require.NoError(t, f.shell.Logout(context.Background()))

	require.Equal(t, app.RouteWelcome, f.topPath(t))
	require.Equal(t, 1, f.shell.Nav().Stack().Depth())
	require.False(t, f.service.Store().Snapshot().Authenticated)

	// A relaunch after logout stays logged out.
	f.restart(t)
	require.NoError(t, f.shell.Launch(context.Background()))
	require.Equal(t, app.RouteWelcome, f.topPath(t))
}

// TestLogin_FailureLeavesNavigationUntouched tests that a rejected login
// commits nothing.
func TestLogin_FailureLeavesNavigationUntouched(t *testing.T) {
	f := setupShell(t)
	require.NoError(t, f.shell.Launch(context.Background()))
	f.shell.Navigate(app.RouteLogin, nil)

	err := f.shell.Login(context.Background(), testEmail, "wrong-password")

	require.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
	require.Equal(t, app.RouteLogin, f.topPath(t))
}

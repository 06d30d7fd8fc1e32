package app

import "github.com/notagain-app/notagain-core/routes"

// Route paths for every screen in the shell.
const (
	RouteWelcome = "/welcome"
	RouteLogin   = "/login"
	RouteSignup  = "/signup"

	RouteOnboardingName    = "/onboarding/name"
	RouteOnboardingPicture = "/onboarding/picture"

	RouteHome     = "/home"
	RouteRules    = "/rules"
	RouteRuleEdit = "/rules/edit"
	RouteSettings = "/settings"
)

// DefaultRegistry builds the NotAgain route table. Entry routes are the
// guard's redirect targets and are Root so a replace-all never lands on a
// screen with an armed back gesture.
func DefaultRegistry() (*routes.Registry, error) {
	registry := routes.NewRegistry()

	table := []routes.Route{
		{Path: RouteWelcome, Reach: routes.Public, Gesture: routes.Root, Description: "landing screen"},
		{Path: RouteLogin, Reach: routes.Public, Gesture: routes.Nested, Description: "email login form"},
		{Path: RouteSignup, Reach: routes.Public, Gesture: routes.Nested, Description: "account creation form"},

		{Path: RouteOnboardingName, Reach: routes.OnboardingOnly, Gesture: routes.Root, Description: "onboarding step 1, display name"},
		{Path: RouteOnboardingPicture, Reach: routes.OnboardingOnly, Gesture: routes.Nested, Description: "onboarding step 2, profile picture"},

		{Path: RouteHome, Reach: routes.MainApp, Gesture: routes.Root, Description: "dashboard"},
		{Path: RouteRules, Reach: routes.MainApp, Gesture: routes.Nested, Description: "blocking rule list"},
		{Path: RouteRuleEdit, Reach: routes.MainApp, Gesture: routes.Nested, Description: "blocking rule editor"},
		{Path: RouteSettings, Reach: routes.MainApp, Gesture: routes.Nested, Description: "account settings"},
	}
	for _, route := range table {
		if err := registry.Register(route); err != nil {
			return nil, err
		}
	}

	for _, entry := range []string{RouteWelcome, RouteOnboardingName, RouteHome} {
		if err := registry.SetEntry(entry); err != nil {
			return nil, err
		}
	}

	if err := registry.Validate(); err != nil {
		return nil, err
	}
	return registry, nil
}

package routes

// ReachabilityClass is the category of session state required to view a route.
type ReachabilityClass string

const (
	// Public routes need no authentication (welcome, login, signup).
	Public ReachabilityClass = "public"
	// OnboardingOnly routes need an authenticated session whose onboarding is incomplete.
	OnboardingOnly ReachabilityClass = "onboarding"
	// MainApp routes need an authenticated and fully onboarded session.
	MainApp ReachabilityClass = "main"
)

// GestureCapability says whether a route's screen permits the platform
// back-swipe pop. It is fixed at registration time and never depends on
// runtime state: a Root route is only ever the sole entry on the stack
// (the target of a replace-all), so its back gesture must be disabled.
type GestureCapability string

const (
	// Root disables the back gesture. Required for every route that is
	// the target of a replace-all transition.
	Root GestureCapability = "root"
	// Nested enables the back gesture. Safe only for routes reached by
	// push, which always have a predecessor on the stack.
	Nested GestureCapability = "nested"
)

// Route is a registered screen destination. Both tags are fixed at
// registration time.
type Route struct {
	Path        string
	Reach       ReachabilityClass
	Gesture     GestureCapability
	Description string
}

// Params carries per-navigation screen arguments.
type Params map[string]any

// Renderer is the screen-rendering collaborator. The core resolves a route
// and hands it over; it never inspects the output.
type Renderer interface {
	Render(route Route, params Params)
}

package routes

import (
	"github.com/pkg/errors"
)

// Registry is the static route table. Routes are registered once at startup;
// lookups at navigation time never mutate it.
type Registry struct {
	byPath  map[string]Route
	entries map[ReachabilityClass]Route
}

// NewRegistry returns an empty route table.
func NewRegistry() *Registry {
	return &Registry{
		byPath:  make(map[string]Route),
		entries: make(map[ReachabilityClass]Route),
	}
}

// Register adds a route to the table. Re-registering a path is a
// configuration error.
func (r *Registry) Register(route Route) error {
	if route.Path == "" {
		return errors.New("[Registry.Register] route path is required")
	}
	if _, ok := r.byPath[route.Path]; ok {
		return errors.Errorf("[Registry.Register] duplicate route %q", route.Path)
	}
	switch route.Reach {
	case Public, OnboardingOnly, MainApp:
	default:
		return errors.Errorf("[Registry.Register] route %q has no reachability class", route.Path)
	}
	switch route.Gesture {
	case Root, Nested:
	default:
		return errors.Errorf("[Registry.Register] route %q has no gesture capability", route.Path)
	}
	r.byPath[route.Path] = route
	return nil
}

// SetEntry marks a route as the default entry for its reachability class.
// The guard redirects denied requests to these entries, so each class used
// by the guard must have one and it must be a Root route.
func (r *Registry) SetEntry(path string) error {
	route, ok := r.byPath[path]
	if !ok {
		return errors.Errorf("[Registry.SetEntry] route %q not registered", path)
	}
	if route.Gesture != Root {
		return errors.Errorf("[Registry.SetEntry] entry route %q must be a root route", path)
	}
	if existing, ok := r.entries[route.Reach]; ok {
		return errors.Errorf("[Registry.SetEntry] class %s already has entry %q", route.Reach, existing.Path)
	}
	r.entries[route.Reach] = route
	return nil
}

// Lookup returns the route registered for path.
func (r *Registry) Lookup(path string) (Route, bool) {
	route, ok := r.byPath[path]
	return route, ok
}

// Entry returns the default entry route for a reachability class.
func (r *Registry) Entry(class ReachabilityClass) (Route, bool) {
	route, ok := r.entries[class]
	return route, ok
}

// Routes returns every registered route, in no particular order.
func (r *Registry) Routes() []Route {
	all := make([]Route, 0, len(r.byPath))
	for _, route := range r.byPath {
		all = append(all, route)
	}
	return all
}

// Validate checks the registry's configuration invariants: every class the
// guard can redirect to has a default entry, and every entry is a Root
// route. Call once after registration, before serving navigation requests.
func (r *Registry) Validate() error {
	for _, class := range []ReachabilityClass{Public, OnboardingOnly, MainApp} {
		entry, ok := r.entries[class]
		if !ok {
			return errors.Errorf("[Registry.Validate] class %s has no entry route", class)
		}
		if entry.Gesture != Root {
			return errors.Errorf("[Registry.Validate] entry route %q is not a root route", entry.Path)
		}
	}
	return nil
}

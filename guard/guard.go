// Package guard decides, for every navigation request, whether the
// requested route may be entered under the current session state or where
// to redirect instead. Evaluation is pure: no I/O, no mutation, computed
// synchronously from an already-resolved session snapshot.
package guard

import (
	"github.com/pkg/errors"

	"github.com/notagain-app/notagain-core/routes"
	"github.com/notagain-app/notagain-core/session"
)

// Decision is the guard's verdict on a navigation request.
type Decision struct {
	Allowed  bool
	Redirect routes.Route // set when Allowed is false
}

// Allow is the decision permitting the requested route.
func Allow() Decision {
	return Decision{Allowed: true}
}

// RedirectTo is the decision sending the navigation to another route.
func RedirectTo(route routes.Route) Decision {
	return Decision{Redirect: route}
}

// Evaluator evaluates navigation requests against a route registry. The
// registry must pass Validate before an evaluator is built, which
// guarantees every redirect target exists.
type Evaluator struct {
	registry *routes.Registry
}

// NewEvaluator builds an evaluator over a validated registry.
func NewEvaluator(registry *routes.Registry) (*Evaluator, error) {
	if registry == nil {
		return nil, errors.New("[NewEvaluator] registry is required")
	}
	if err := registry.Validate(); err != nil {
		return nil, errors.Wrap(err, "[NewEvaluator] registry validation")
	}
	return &Evaluator{registry: registry}, nil
}

// Evaluate applies the guard rules in fixed order. The order is
// load-bearing: each branch redirects to the entry route of the one class
// that same branch allows, so re-evaluating a redirect target always
// yields Allow and no redirect chain can loop.
func (e *Evaluator) Evaluate(state session.State, route routes.Route) Decision {
	switch {
	case !state.Authenticated:
		if route.Reach == routes.Public {
			return Allow()
		}
		return e.redirect(routes.Public)

	case !state.OnboardingCompleted:
		if route.Reach == routes.OnboardingOnly {
			return Allow()
		}
		return e.redirect(routes.OnboardingOnly)

	default:
		if route.Reach == routes.Public || route.Reach == routes.OnboardingOnly {
			return e.redirect(routes.MainApp)
		}
		return Allow()
	}
}

func (e *Evaluator) redirect(class routes.ReachabilityClass) Decision {
	entry, ok := e.registry.Entry(class)
	if !ok {
		// Unreachable after Validate; allowing is the only non-panicking fallback.
		return Allow()
	}
	return RedirectTo(entry)
}

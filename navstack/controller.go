// Package navstack owns the navigation stack and is the only consumer of
// guard decisions. Every navigation request, whether a user tap, a deep
// link or a programmatic redirect, commits through the controller.
//
// The protocol: session-state transitions (login success, logout,
// onboarding completion) go through RequestReplaceAll; screen-to-screen
// progression goes through RequestPush; every back affordance, explicit
// control and platform gesture alike, goes through the single RequestPop
// path.
package navstack

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/notagain-app/notagain-core/guard"
	apperrors "github.com/notagain-app/notagain-core/internal/errors"
	"github.com/notagain-app/notagain-core/routes"
	"github.com/notagain-app/notagain-core/session"
)

// Controller mediates all stack mutation. Guard evaluation happens before
// any mutation commits; a denied request never partially succeeds.
type Controller struct {
	stack     Stack
	registry  *routes.Registry
	evaluator *guard.Evaluator
	store     *session.Store
	renderer  routes.Renderer
}

// ControllerOption modifies a Controller.
type ControllerOption func(*Controller)

// WithRenderer attaches the screen-rendering collaborator. The controller
// re-renders the top entry after every committed mutation.
func WithRenderer(r routes.Renderer) ControllerOption {
	return func(c *Controller) {
		c.renderer = r
	}
}

// NewController builds a controller and seeds the stack with the route the
// guard resolves for the current session state, so the stack is non-empty
// from the first frame.
func NewController(registry *routes.Registry, evaluator *guard.Evaluator, store *session.Store, options ...ControllerOption) (*Controller, error) {
	if registry == nil {
		return nil, errors.New("[NewController] registry is required")
	}
	if evaluator == nil {
		return nil, errors.New("[NewController] evaluator is required")
	}
	if store == nil {
		return nil, errors.New("[NewController] session store is required")
	}

	c := &Controller{
		registry:  registry,
		evaluator: evaluator,
		store:     store,
	}
	for _, opt := range options {
		opt(c)
	}

	entry, ok := registry.Entry(routes.Public)
	if !ok {
		return nil, errors.New("[NewController] no public entry route")
	}
	c.RequestReplaceAll(entry.Path, nil)
	return c, nil
}

// Stack returns a read-only view of the navigation stack.
func (c *Controller) Stack() *Stack {
	return &c.stack
}

// Top returns the current top entry.
func (c *Controller) Top() Entry {
	top, _ := c.stack.Top()
	return top
}

// RequestPush appends a screen for flow progression. If the guard denies
// the route, the stack is replaced with the redirect target instead: the
// denied destination leaves no half-committed history behind it.
func (c *Controller) RequestPush(path string, params routes.Params) Entry {
	route, decision := c.evaluate(path)
	if !decision.Allowed {
		log.Debug().Str("requested", path).Str("redirect", decision.Redirect.Path).Msg("push denied, replacing stack")
		c.commitReplaceAll(Entry{Route: decision.Redirect})
		return c.Top()
	}
	c.commitPush(Entry{Route: route, Params: params})
	return c.Top()
}

// RequestReplaceAll clears history and lands on a single entry. Used for
// session-state transitions, where the previous history must not remain
// reachable through the back affordance.
func (c *Controller) RequestReplaceAll(path string, params routes.Params) Entry {
	route, decision := c.evaluate(path)
	entry := Entry{Route: route, Params: params}
	if !decision.Allowed {
		log.Debug().Str("requested", path).Str("redirect", decision.Redirect.Path).Msg("replace denied, redirecting")
		entry = Entry{Route: decision.Redirect}
	}
	c.commitReplaceAll(entry)
	return c.Top()
}

// RequestPop removes the top entry. Popping needs no guard evaluation, it
// only returns to a previously allowed state. A pop that would empty the
// stack is rejected as a no-op, never a crash.
func (c *Controller) RequestPop() bool {
	if !c.stack.pop() {
		log.Debug().Err(apperrors.ErrStackUnderflow).Msg("pop rejected")
		return false
	}
	c.render()
	return true
}

// GesturePop is the platform back-swipe path. The recognizer is supposed
// to be disabled for Root entries (see GestureEnabled); a gesture that
// arrives anyway is ignored rather than risking an underflow.
func (c *Controller) GesturePop() bool {
	if !c.GestureEnabled() {
		return false
	}
	return c.RequestPop()
}

// GestureEnabled tells the rendering layer whether to arm the back-swipe
// recognizer for the current top screen. Fixed by the route's registered
// capability, not by runtime stack depth.
func (c *Controller) GestureEnabled() bool {
	top, ok := c.stack.Top()
	if !ok {
		return false
	}
	return top.Route.Gesture == routes.Nested
}

// evaluate resolves the path and runs the guard on the current session
// snapshot. An unregistered path is a programming-time error; it resolves
// to the main-app entry so the guard applies its most restrictive rules.
func (c *Controller) evaluate(path string) (routes.Route, guard.Decision) {
	route, ok := c.registry.Lookup(path)
	if !ok {
		log.Error().Err(apperrors.ErrRouteNotRegistered).Str("path", path).Msg("navigation request rejected")
		route, _ = c.registry.Entry(routes.MainApp)
	}
	snapshot := c.store.Snapshot()
	return route, c.evaluator.Evaluate(snapshot, route)
}

func (c *Controller) commitPush(e Entry) {
	c.stack.push(e)
	c.render()
}

func (c *Controller) commitReplaceAll(e Entry) {
	c.stack.replaceAll(e)
	c.render()
}

func (c *Controller) render() {
	if c.renderer == nil {
		return
	}
	if top, ok := c.stack.Top(); ok {
		c.renderer.Render(top.Route, top.Params)
	}
}

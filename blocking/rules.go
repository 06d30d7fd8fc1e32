// Package blocking manages app-blocking rules. Rules are plain CRUD over
// the rule store; actual enforcement lives behind the opaque native
// Enforcer capability and has no logic of its own in this repo.
package blocking

import (
	"context"
	"time"
)

// Rule blocks one app for one user during a daily window.
type Rule struct {
	ID        string
	UserID    string
	AppID     string
	StartHour int
	EndHour   int
	Enabled   bool
	CreatedAt time.Time
}

// Repo is the rule store boundary.
type Repo interface {
	Upsert(rule *Rule) error
	GetByID(id string) (*Rule, error)
	ListByUser(userID string) ([]*Rule, error)
	Delete(id string) error
}

// Enforcer is the platform-native blocking capability: an opaque
// collaborator that can block an app or ask for a platform permission.
type Enforcer interface {
	BlockApp(ctx context.Context, appID string) error
	UnblockApp(ctx context.Context, appID string) error
	RequestPermission(ctx context.Context, permission string) (bool, error)
}

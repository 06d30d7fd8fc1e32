package blocking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/notagain-app/notagain-core/internal/utils"
)

// PermissionScreenTime is the platform permission needed before any rule
// can be enforced.
const PermissionScreenTime = "screen_time_access"

// Service owns rule CRUD and hands enabled rules to the native enforcer.
type Service struct {
	repo     Repo
	enforcer Enforcer
	nowTime  func() time.Time
}

// ServiceOption modifies a Service.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes the rule service with required dependencies.
func NewService(repo Repo, enforcer Enforcer, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[blocking.NewService] repo is required")
	}
	if enforcer == nil {
		return nil, errors.New("[blocking.NewService] enforcer is required")
	}
	s := &Service{
		repo:     repo,
		enforcer: enforcer,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// CreateRule stores a new rule and, when enabled, asks the enforcer to
// block the app immediately.
func (s *Service) CreateRule(ctx context.Context, userID, appID string, startHour, endHour int, enabled bool) (*Rule, error) {
	if userID == "" {
		return nil, errors.New("[Service.CreateRule] user id is required")
	}
	if appID == "" {
		return nil, errors.New("[Service.CreateRule] app id is required")
	}
	if startHour < 0 || startHour > 23 || endHour < 0 || endHour > 23 {
		return nil, errors.New("[Service.CreateRule] hours must be within 0-23")
	}

	rule := &Rule{
		ID:        uuid.New().String(),
		UserID:    userID,
		AppID:     appID,
		StartHour: startHour,
		EndHour:   endHour,
		Enabled:   enabled,
		CreatedAt: s.nowTime(),
	}
	if err := s.repo.Upsert(rule); err != nil {
		return nil, errors.Wrap(err, "[Service.CreateRule] repo.Upsert")
	}

	if enabled {
		s.apply(ctx, rule)
	}
	return rule, nil
}

// UpdateRule applies a partial update. Nil fields keep their current
// values.
func (s *Service) UpdateRule(ctx context.Context, id string, enabled *bool, startHour, endHour *int) (*Rule, error) {
	rule, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.UpdateRule] repo.GetByID")
	}

	if enabled != nil {
		rule.Enabled = utils.Value(enabled)
	}
	if startHour != nil {
		rule.StartHour = utils.Value(startHour)
	}
	if endHour != nil {
		rule.EndHour = utils.Value(endHour)
	}

	if err := s.repo.Upsert(rule); err != nil {
		return nil, errors.Wrap(err, "[Service.UpdateRule] repo.Upsert")
	}

	if rule.Enabled {
		s.apply(ctx, rule)
	} else if err := s.enforcer.UnblockApp(ctx, rule.AppID); err != nil {
		log.Warn().Err(err).Str("app", rule.AppID).Msg("failed to lift block")
	}
	return rule, nil
}

// ListRules returns the user's rules.
func (s *Service) ListRules(userID string) ([]*Rule, error) {
	rules, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.ListRules] repo.ListByUser")
	}
	return rules, nil
}

// DeleteRule removes a rule and lifts its block.
func (s *Service) DeleteRule(ctx context.Context, id string) error {
	rule, err := s.repo.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "[Service.DeleteRule] repo.GetByID")
	}
	if err := s.repo.Delete(id); err != nil {
		return errors.Wrap(err, "[Service.DeleteRule] repo.Delete")
	}
	if err := s.enforcer.UnblockApp(ctx, rule.AppID); err != nil {
		log.Warn().Err(err).Str("app", rule.AppID).Msg("failed to lift block")
	}
	return nil
}

// EnsurePermission asks the platform for screen-time access.
func (s *Service) EnsurePermission(ctx context.Context) (bool, error) {
	granted, err := s.enforcer.RequestPermission(ctx, PermissionScreenTime)
	if err != nil {
		return false, errors.Wrap(err, "[Service.EnsurePermission] enforcer.RequestPermission")
	}
	return granted, nil
}

func (s *Service) apply(ctx context.Context, rule *Rule) {
	if err := s.enforcer.BlockApp(ctx, rule.AppID); err != nil {
		log.Warn().Err(err).Str("app", rule.AppID).Msg("failed to apply block")
	}
}

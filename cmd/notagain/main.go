package main

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"

	"github.com/notagain-app/notagain-core/app"
	"github.com/notagain-app/notagain-core/blocking"
	"github.com/notagain-app/notagain-core/blocking/enforcerfake"
	"github.com/notagain-app/notagain-core/blocking/sqliterepo"
	"github.com/notagain-app/notagain-core/federated"
	"github.com/notagain-app/notagain-core/internal/config"
	"github.com/notagain-app/notagain-core/onboarding"
	"github.com/notagain-app/notagain-core/onboarding/avatarfake"
	"github.com/notagain-app/notagain-core/session"
	"github.com/notagain-app/notagain-core/session/backendfake"
	"github.com/notagain-app/notagain-core/storage/sqlitekv"
)

const (
	demoEmail    = "demo@notagain.app"
	demoPassword = "demo-password"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("notagain stopped")
	}
	log.Info().Msg("notagain finished")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	kv, err := sqlitekv.New(c.GetDatabasePath())
	if err != nil {
		return fmt.Errorf("sqlitekv.New: %w", err)
	}
	defer kv.Close()
	log.Info().Str("path", c.GetDatabasePath()).Msg("local storage opened")

	ctx := context.Background()

	// The hosted backend is faked here: the demo binary exercises the
	// navigation core, not a network service.
	fake := backendfake.NewFakeBackend()
	if _, err := fake.SeedAccount(demoEmail, demoPassword, false); err != nil {
		return fmt.Errorf("seed demo account: %w", err)
	}

	// With an OIDC issuer configured, federated sign-in runs the real code
	// flow; everything else still hits the fake.
	backend := session.Backend(fake)
	if issuer := c.GetOIDCIssuer(); issuer != "" {
		client, err := federated.NewClient(ctx, issuer, c.GetOIDCClientID(), c.GetOIDCClientSecret(), "notagain://auth/callback")
		if err != nil {
			return fmt.Errorf("federated.NewClient: %w", err)
		}
		backend, err = federated.NewBackend(fake, stdinCodeFlow{}, map[string]*federated.Client{"oidc": client})
		if err != nil {
			return fmt.Errorf("federated.NewBackend: %w", err)
		}
		log.Info().Str("issuer", issuer).Msg("federated sign-in configured")
	}

	tokens, err := session.NewTokenStore(kv, []byte(c.GetSessionTokenSecret()))
	if err != nil {
		return fmt.Errorf("session.NewTokenStore: %w", err)
	}
	sessions, err := session.NewService(backend, session.NewStore(), tokens)
	if err != nil {
		return fmt.Errorf("session.NewService: %w", err)
	}

	progress, err := onboarding.NewProgressStore(kv)
	if err != nil {
		return fmt.Errorf("onboarding.NewProgressStore: %w", err)
	}
	flow, err := onboarding.NewFlow(sessions, progress, avatarfake.NewFakeAvatarStore())
	if err != nil {
		return fmt.Errorf("onboarding.NewFlow: %w", err)
	}

	shell, err := app.New(sessions, flow, consoleRenderer{})
	if err != nil {
		return fmt.Errorf("app.New: %w", err)
	}

	ruleRepo, err := sqliterepo.New(kv.DB())
	if err != nil {
		return fmt.Errorf("sqliterepo.New: %w", err)
	}
	rules, err := blocking.NewService(ruleRepo, enforcerfake.NewFakeEnforcer())
	if err != nil {
		return fmt.Errorf("blocking.NewService: %w", err)
	}

	return walkthrough(ctx, shell, sessions, rules)
}

// walkthrough drives a scripted session through the shell: launch,
// sign-in, onboarding, rule creation, logout.
func walkthrough(ctx context.Context, shell *app.Shell, sessions *session.Service, rules *blocking.Service) error {
	if err := shell.Launch(ctx); err != nil {
		return fmt.Errorf("shell.Launch: %w", err)
	}

	state := sessions.Store().Snapshot()
	if !state.Authenticated {
		if err := shell.Login(ctx, demoEmail, demoPassword); err != nil {
			return fmt.Errorf("shell.Login: %w", err)
		}
		state = sessions.Store().Snapshot()
	}

	if !state.OnboardingCompleted {
		wizard := shell.Onboarding()
		if wizard.Step() == onboarding.Step1 {
			wizard.SetName("Demo User")
			if err := shell.OnboardingNext(); err != nil {
				return fmt.Errorf("shell.OnboardingNext: %w", err)
			}
		}
		if err := shell.OnboardingComplete(ctx, true); err != nil {
			return fmt.Errorf("shell.OnboardingComplete: %w", err)
		}
		state = sessions.Store().Snapshot()
	}

	shell.Navigate(app.RouteRules, nil)
	rule, err := rules.CreateRule(ctx, state.UserID, "com.example.doomscroll", 9, 17, true)
	if err != nil {
		return fmt.Errorf("rules.CreateRule: %w", err)
	}
	log.Info().Str("rule", rule.ID).Str("app", rule.AppID).Msg("blocking rule created")

	shell.BackGesture()
	if err := shell.Logout(ctx); err != nil {
		return fmt.Errorf("shell.Logout: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

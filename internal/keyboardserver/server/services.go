package server

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/tansive/keyboardserver/internal/keyboardserver/config"
	"github.com/tansive/keyboardserver/internal/keyboardserver/dispatcher"
	"github.com/tansive/keyboardserver/internal/keyboardserver/display"
	"github.com/tansive/keyboardserver/internal/keyboardserver/keyboard"
	"github.com/tansive/keyboardserver/internal/keyboardserver/runner"
)

// Services holds the components behind the HTTP API, wired from the loaded
// configuration.
type Services struct {
	Resolver   *display.Resolver
	Keyboard   *keyboard.Keyboard
	Dispatcher *dispatcher.Dispatcher
}

// NewServices wires the resolver, keyboard and dispatcher on top of rn using
// config.Config().
func NewServices(rn runner.Runner) *Services {
	cfg := config.Config()

	resolver := display.NewResolver(rn,
		display.WithDefault(cfg.Display.Default),
		display.WithSessionCommand(cfg.Display.SessionCommand...),
	)
	kb := keyboard.New(rn, resolver, keyboard.Options{
		TypeTool:   cfg.Typing.Tool,
		LayoutTool: cfg.Keyboard.Tool,
		KeyDelay:   cfg.Typing.GetKeyDelay(),
	})
	d := dispatcher.New(kb, dispatcher.Options{
		TriggerPhrase: cfg.Typing.TriggerPhrase,
		ConfirmKey:    cfg.Typing.ConfirmKey,
		SettleDelay:   cfg.Typing.GetSettleDelay(),
	})

	return &Services{
		Resolver:   resolver,
		Keyboard:   kb,
		Dispatcher: d,
	}
}

// SetKeyboardLayout sets the configured layout on the resolved display.
// Failure is logged and reported but is not fatal.
func (s *Services) SetKeyboardLayout(ctx context.Context) bool {
	layout := config.Config().Keyboard.Layout
	if err := s.Keyboard.SetLayout(ctx, layout); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to set keyboard layout, keyboard input might be incorrect")
		return false
	}
	return true
}

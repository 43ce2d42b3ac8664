// Package keyboard simulates keyboard input on an X display through external
// utilities: xdotool for typing text and sending named keys, setxkbmap for
// the keyboard layout. The target display is resolved again for every
// action.
package keyboard

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tansive/keyboardserver/internal/common/apperrors"
	"github.com/tansive/keyboardserver/internal/keyboardserver/display"
	"github.com/tansive/keyboardserver/internal/keyboardserver/runner"
)

// DisplayResolver returns the display to send input to.
type DisplayResolver interface {
	Resolve(ctx context.Context) string
}

// Options configures a Keyboard. Zero values select the defaults.
type Options struct {
	TypeTool   string        // text-injection utility, default "xdotool"
	LayoutTool string        // layout utility, default "setxkbmap"
	KeyDelay   time.Duration // delay between typed characters, default 50ms
}

// Keyboard performs input actions against the resolved display.
type Keyboard struct {
	runner   runner.Runner
	resolver DisplayResolver
	opts     Options
}

// New returns a Keyboard running its utilities through rn.
func New(rn runner.Runner, resolver DisplayResolver, opts Options) *Keyboard {
	if opts.TypeTool == "" {
		opts.TypeTool = "xdotool"
	}
	if opts.LayoutTool == "" {
		opts.LayoutTool = "setxkbmap"
	}
	if opts.KeyDelay <= 0 {
		opts.KeyDelay = 50 * time.Millisecond
	}
	return &Keyboard{
		runner:   rn,
		resolver: resolver,
		opts:     opts,
	}
}

// Type types text character by character with the configured key delay.
func (k *Keyboard) Type(ctx context.Context, text string) apperrors.Error {
	delay := strconv.FormatInt(k.opts.KeyDelay.Milliseconds(), 10)
	if err := k.run(ctx, k.opts.TypeTool, "type", "--delay", delay, "--", text); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while typing text part")
		return ErrTypeFailed.Err(err)
	}
	return nil
}

// PressKey sends a single named key such as "Return".
func (k *Keyboard) PressKey(ctx context.Context, key string) apperrors.Error {
	if err := k.run(ctx, k.opts.TypeTool, "key", key); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("key", key).Msg("error simulating key press")
		return ErrKeyFailed.Err(err)
	}
	return nil
}

// SetLayout sets the keyboard layout of the display, e.g. "de".
func (k *Keyboard) SetLayout(ctx context.Context, layout string) apperrors.Error {
	if err := k.run(ctx, k.opts.LayoutTool, layout); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("layout", layout).Msg("error setting keyboard layout")
		return ErrLayoutFailed.Err(err)
	}
	log.Ctx(ctx).Info().Str("layout", layout).Msg("keyboard layout set")
	return nil
}

func (k *Keyboard) run(ctx context.Context, name string, args ...string) apperrors.Error {
	env := map[string]string{
		display.EnvDisplay: k.resolver.Resolve(ctx),
	}
	_, err := k.runner.Run(ctx, env, name, args...)
	return err
}

// Package dispatcher turns a text request into keyboard actions. Text that
// ends with the trigger phrase is treated as a command: whatever precedes
// the phrase is typed and then the confirm key is pressed.
package dispatcher

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
	"github.com/tansive/keyboardserver/internal/common/apperrors"
)

// DefaultTriggerPhrase ends a command.
const DefaultTriggerPhrase = "make it so"

// Typer performs the keyboard actions.
type Typer interface {
	Type(ctx context.Context, text string) apperrors.Error
	PressKey(ctx context.Context, key string) apperrors.Error
}

// Options configures a Dispatcher. Zero values select the defaults, except
// SettleDelay where zero means no pause.
type Options struct {
	TriggerPhrase string        // default "make it so"
	ConfirmKey    string        // default "Return"
	SettleDelay   time.Duration // pause between typing a prefix and confirming
}

// Dispatcher dispatches text to a Typer.
type Dispatcher struct {
	typer Typer
	opts  Options
	sleep func(time.Duration)
}

// New returns a Dispatcher.
func New(typer Typer, opts Options) *Dispatcher {
	if opts.TriggerPhrase == "" {
		opts.TriggerPhrase = DefaultTriggerPhrase
	}
	if opts.ConfirmKey == "" {
		opts.ConfirmKey = "Return"
	}
	return &Dispatcher{
		typer: typer,
		opts:  opts,
		sleep: time.Sleep,
	}
}

// Result describes a successful dispatch.
type Result struct {
	Text    string // the text as received
	Command bool   // the trigger phrase was present and the confirm key sent
}

// Message is the human readable outcome reported to the client.
func (r *Result) Message() string {
	if r.Command {
		return "Successfully typed text and pressed Return"
	}
	return "Successfully typed text: " + r.Text
}

// SplitCommand reports whether text ends with trigger and returns the text
// before it with trailing whitespace removed. The match is literal and case
// sensitive.
func SplitCommand(text, trigger string) (prefix string, isCommand bool) {
	if trigger == "" || !strings.HasSuffix(text, trigger) {
		return text, false
	}
	prefix = strings.TrimSuffix(text, trigger)
	return strings.TrimRightFunc(prefix, unicode.IsSpace), true
}

// Dispatch types text, or for a command types the prefix (if any), waits for
// the settle delay and presses the confirm key. A failed prefix aborts the
// command without confirming.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) (*Result, apperrors.Error) {
	prefix, isCommand := SplitCommand(text, d.opts.TriggerPhrase)
	if !isCommand {
		if err := d.typer.Type(ctx, text); err != nil {
			return nil, ErrDispatchFailed.Err(err)
		}
		return &Result{Text: text}, nil
	}

	log.Ctx(ctx).Info().Bool("has_prefix", prefix != "").Msg("command phrase received")
	if prefix != "" {
		if err := d.typer.Type(ctx, prefix); err != nil {
			return nil, ErrDispatchFailed.Err(err)
		}
		d.sleep(d.opts.SettleDelay)
	}
	if err := d.typer.PressKey(ctx, d.opts.ConfirmKey); err != nil {
		return nil, ErrDispatchFailed.Err(err)
	}
	return &Result{Text: text, Command: true}, nil
}

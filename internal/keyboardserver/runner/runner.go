// Package runner executes the external input-simulation utilities. Commands
// run synchronously to completion; the caller's context is used for logging
// only and never kills a running child, so a keystroke sequence that has
// started is not cut off halfway.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tansive/keyboardserver/internal/common/apperrors"
)

// Runner runs an external command with extra environment variables and
// returns its standard output.
type Runner interface {
	Run(ctx context.Context, env map[string]string, name string, args ...string) ([]byte, apperrors.Error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	baseEnv func() []string
}

// New returns a Runner that inherits the process environment.
func New() *ExecRunner {
	return &ExecRunner{baseEnv: os.Environ}
}

var _ Runner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, env map[string]string, name string, args ...string) ([]byte, apperrors.Error) {
	if name == "" {
		return nil, ErrInvalidCommand
	}

	cmd := exec.Command(name, args...)
	cmd.Env = mergeEnv(r.baseEnv(), env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Ctx(ctx).Debug().Str("command", name).Strs("args", args).Msg("running command")

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrCommandNotFound.MsgErr("command not found: "+name, err)
		}
		msg := "command execution failed: " + name
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg += ": " + s
		}
		return stdout.Bytes(), ErrExecutionFailed.MsgErr(msg, err)
	}
	return stdout.Bytes(), nil
}

// mergeEnv overlays env onto base. Keys are applied in sorted order so the
// result is deterministic.
func mergeEnv(base []string, env map[string]string) []string {
	out := make([]string, len(base))
	copy(out, base)
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = appendOrReplaceEnv(out, k, env[k])
	}
	return out
}

func appendOrReplaceEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

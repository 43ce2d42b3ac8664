package runner

import (
	"context"
	"sync"

	"github.com/tansive/keyboardserver/internal/common/apperrors"
)

// Call is a command recorded by FakeRunner.
type Call struct {
	Env  map[string]string
	Name string
	Args []string
}

// FakeRunner records calls instead of spawning processes. Handler, if set,
// decides the output and error of each call.
type FakeRunner struct {
	Handler func(call Call) ([]byte, apperrors.Error)

	mu    sync.Mutex
	calls []Call
}

var _ Runner = (*FakeRunner)(nil)

func (f *FakeRunner) Run(ctx context.Context, env map[string]string, name string, args ...string) ([]byte, apperrors.Error) {
	call := Call{
		Env:  make(map[string]string, len(env)),
		Name: name,
		Args: append([]string(nil), args...),
	}
	for k, v := range env {
		call.Env[k] = v
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	handler := f.Handler
	f.mu.Unlock()

	if handler == nil {
		return nil, nil
	}
	return handler(call)
}

// Calls returns a copy of the recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded calls to the named command.
func (f *FakeRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets all recorded calls.
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

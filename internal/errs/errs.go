package errs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Wrap adds context and keeps the chain usable with errors.Is/As.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	args = append(args, err)
	return fmt.Errorf(format+": %w", args...)
}

// WithStack records the stack once, at the root cause.
func WithStack(err error) error {
	if err == nil {
		return nil
	}

	var se *StackError
	if errors.As(err, &se) {
		return err
	}

	return &StackError{
		err:   err,
		stack: debug.Stack(),
	}
}

// StackError carries the stack captured by WithStack.
type StackError struct {
	err   error
	stack []byte
}

func (e *StackError) Error() string { return e.err.Error() }
func (e *StackError) Unwrap() error { return e.err }
func (e *StackError) Stack() []byte { return e.stack }

// Loggable renders an error as a structured slog group.
// Usage: slog.Any("err", errs.Loggable(err))
func Loggable(err error) slog.LogValuer { return loggable{err: err} }

type loggable struct{ err error }

func (l loggable) LogValue() slog.Value {
	if l.err == nil {
		return slog.GroupValue()
	}

	attrs := []slog.Attr{
		slog.String("message", l.err.Error()),
		slog.Any("chain", ErrorChainStrings(l.err)),
	}

	var se *StackError
	if errors.As(l.err, &se) {
		attrs = append(attrs, slog.String("stack", string(se.Stack())))
	}

	return slog.GroupValue(attrs...)
}

// ErrorChainStrings returns the unwrap chain, outermost first.
func ErrorChainStrings(err error) []string {
	if err == nil {
		return nil
	}

	out := make([]string, 0, 8)
	for e := err; e != nil; e = errors.Unwrap(e) {
		out = append(out, e.Error())
	}
	return out
}

// RootCause returns the innermost error of a single-unwrap chain.
func RootCause(err error) error {
	for err != nil {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}

// RequireContext is the common guard at the top of blocking calls.
func RequireContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Wrap(err, "check context")
	}
	return nil
}

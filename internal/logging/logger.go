// Package logging is the structured logger shared by the timevault server
// and its services. Lines carry key/value pairs; attributes stored on a
// context with ContextWith are appended to every line logged with it.
package logging

import "context"

// Logger writes leveled, structured lines. args alternate keys and values:
//
//	log.Info(ctx, "deposit accepted", "vault", vault, "end_time", end)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a Logger that prefixes args to every line.
	With(args ...any) Logger
}

// Named tags l with the component that owns it.
func Named(l Logger, component string) Logger {
	return l.With("module", component)
}

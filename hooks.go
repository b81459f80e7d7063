package strtables

import "log/slog"

// Hook observes the diagnostics of a run, in their final sorted order.
type Hook interface {
	OnDiagnostic(diag Diagnostic)
}

// HookFunc adapts a bare function to Hook.
type HookFunc func(diag Diagnostic)

func (fn HookFunc) OnDiagnostic(diag Diagnostic) {
	if fn != nil {
		fn(diag)
	}
}

// LogHook returns a Hook that logs every diagnostic as a warning.
func LogHook(logger *slog.Logger) Hook {
	if logger == nil {
		logger = nopLogger
	}
	return HookFunc(func(diag Diagnostic) {
		attrs := []any{
			slog.String("kind", string(diag.Kind)),
			slog.String("table", diag.Table),
		}
		if locale := diag.Locale.String(); locale != "" {
			attrs = append(attrs, slog.String("locale", locale))
		}
		if diag.Key != "" {
			attrs = append(attrs, slog.String("key", diag.Key))
		}
		if len(diag.Keys) > 0 {
			attrs = append(attrs, slog.Any("keys", diag.Keys))
		}
		logger.Warn(diag.Message, attrs...)
	})
}

func filterHooks(hooks []Hook) []Hook {
	filtered := make([]Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		filtered = append(filtered, hook)
	}
	return filtered
}

package log

// NopLogger is a no-op logger implementation.
type NopLogger struct{}

// NewNop creates a no-op logger implementation.
func NewNop() Logger {
	return &NopLogger{}
}

// Debug drops the entry.
func (l *NopLogger) Debug(_ ...any) {}

// Debugf drops the entry.
func (l *NopLogger) Debugf(_ string, _ ...any) {}

// Info drops the entry.
func (l *NopLogger) Info(_ ...any) {}

// Infof drops the entry.
func (l *NopLogger) Infof(_ string, _ ...any) {}

// Warn drops the entry.
func (l *NopLogger) Warn(_ ...any) {}

// Warnf drops the entry.
func (l *NopLogger) Warnf(_ string, _ ...any) {}

// Error drops the entry.
func (l *NopLogger) Error(_ ...any) {}

// Errorf drops the entry.
func (l *NopLogger) Errorf(_ string, _ ...any) {}

// WithFields returns the same no-op logger.
//
//nolint:ireturn
func (l *NopLogger) WithFields(_ ...any) Logger {
	return l
}

// Sync is a no-op and always returns nil.
func (l *NopLogger) Sync() error { return nil }

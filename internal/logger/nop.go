package logger

// nopLogger discards everything. Test fixtures use it so assertions stay
// about behavior, not log output.
type nopLogger struct{}

// NewNop returns a logger that discards all output.
func NewNop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(msg string, fields ...Field) {}
func (nopLogger) Info(msg string, fields ...Field)  {}
func (nopLogger) Warn(msg string, fields ...Field)  {}
func (nopLogger) Error(msg string, fields ...Field) {}
func (nopLogger) Fatal(msg string, fields ...Field) {}

func (n nopLogger) With(fields ...Field) Logger { return n }

func (nopLogger) Sync() error { return nil }

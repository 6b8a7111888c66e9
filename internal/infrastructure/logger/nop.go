package logger

type nopLogger struct{}

// NewNop returns a logger that discards everything, for tests.
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Debug(string)          {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Info(string)           {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warn(string)           {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Error(string)          {}
func (nopLogger) Errorf(string, ...any) {}
func (nopLogger) Fatal(string)          {}
func (nopLogger) Fatalf(string, ...any) {}

func (n nopLogger) WithField(string, any) Logger { return n }
func (n nopLogger) WithFields(Fields) Logger     { return n }

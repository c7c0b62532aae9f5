package logging

// Logger is the logging interface shared by the library and the binaries.
// The interception layer itself only logs at construction time, so components
// that do not care about logging can pass the no-op implementation.
type Logger interface {
	Debug(msg string, tags ...any)
	Info(msg string, tags ...any)
	Warn(msg string, tags ...any)
	Error(msg string, tags ...any)

	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
	Fatalf(template string, args ...any)

	With(tags ...any) Logger
}

// NopLogger discards everything. It is the default logger for the proxy
// factory and the metrics registry.
type NopLogger struct{}

var _ Logger = NopLogger{}

func NewNopLogger() Logger { return NopLogger{} }

func (NopLogger) Debug(string, ...any)  {}
func (NopLogger) Info(string, ...any)   {}
func (NopLogger) Warn(string, ...any)   {}
func (NopLogger) Error(string, ...any)  {}
func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
func (NopLogger) Fatalf(string, ...any) {}

func (n NopLogger) With(...any) Logger { return n }

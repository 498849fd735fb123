package evoked

// Logger is implemented by the executables; the library never configures
// logging on its own. Components that log carry an explicit Logger value
// instead of reading package-level state.
type Logger interface {
	Info(message string, module string)
	Error(string)
}

// NopLogger discards everything. It is the default wherever a Logger is
// optional.
type NopLogger struct{}

func (NopLogger) Info(string, string) {}

func (NopLogger) Error(string) {}

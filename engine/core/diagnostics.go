package core

// Diagnostics receives warnings and errors from components that must not
// fail hard on them. Implementations must not block.
type Diagnostics interface {
	Warn(msg string, args ...interface{})
	Error(context, msg string, args ...interface{})
}

type discardDiagnostics struct{}

func (discardDiagnostics) Warn(string, ...interface{})          {}
func (discardDiagnostics) Error(string, string, ...interface{}) {}

// DiscardDiagnostics drops everything it receives.
var DiscardDiagnostics Diagnostics = discardDiagnostics{}

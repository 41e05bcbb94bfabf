package logger

// Logger is the structured logging interface shared by every component.
// The component name comes first so output stays greppable per subsystem.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// NoOp discards everything. Used in tests and as a safe default.
type NoOp struct{}

func (NoOp) Debug(component, message string, fields map[string]interface{}) {}

func (NoOp) Info(component, message string, fields map[string]interface{}) {}

func (NoOp) Warning(component, message string, fields map[string]interface{}) {}

func (NoOp) Error(component string, err error, fields map[string]interface{}) {}

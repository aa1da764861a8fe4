package port

// Fields carries structured values for a log entry.
type Fields map[string]interface{}

// LoggerPort is the logging contract of the core.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	// Error logs msg together with err, which may be nil.
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields returns a logger that adds fields to every entry.
	WithFields(fields Fields) LoggerPort
}

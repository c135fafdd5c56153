package core

// Logger is any leveled logger.
// args may carry errors, maps of extra data and the acting Operator.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Operator identifies the staff member driving a request (from the host's auth token).
type Operator struct {
	ID       string
	Username string
	Email    string
}

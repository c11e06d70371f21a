package core

// Logger is any service that can log & report application events.
// args may hold errors, extra data (map[string]interface{}) or the user the event relates to.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

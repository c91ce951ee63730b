package logger

// LoggerInstance is the interface a logging backend has to satisfy.
type LoggerInstance interface {
	Log(message string, keyvals ...any)
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

// Logger fans log calls out to every configured backend.
type Logger struct {
	instances []LoggerInstance
}

var singleton *Logger

// Init configures the global logger. Calls made before Init are dropped.
func Init(instances ...LoggerInstance) {
	singleton = &Logger{instances: instances}
}

func backends() []LoggerInstance {
	if singleton == nil {
		return nil
	}
	return singleton.instances
}

// Log writes a message at the default level to all configured backends.
func Log(message string, keyvals ...any) {
	for _, instance := range backends() {
		instance.Log(message, keyvals...)
	}
}

// Debug writes a message at DEBUG level to all configured backends.
func Debug(message string, keyvals ...any) {
	for _, instance := range backends() {
		instance.Debug(message, keyvals...)
	}
}

// Info writes a message at INFO level to all configured backends.
func Info(message string, keyvals ...any) {
	for _, instance := range backends() {
		instance.Info(message, keyvals...)
	}
}

// Warn writes a message at WARN level to all configured backends.
func Warn(message string, keyvals ...any) {
	for _, instance := range backends() {
		instance.Warn(message, keyvals...)
	}
}

// Error writes a message at ERROR level to all configured backends.
func Error(message string, keyvals ...any) {
	for _, instance := range backends() {
		instance.Error(message, keyvals...)
	}
}

// Fatal writes a message at FATAL level and terminates the program.
func Fatal(message string, keyvals ...any) {
	for _, instance := range backends() {
		instance.Fatal(message, keyvals...)
	}
}

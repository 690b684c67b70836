package port

// Journal levels.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Journal is the append-only per-dataset audit log.
type Journal interface {
	Record(level, msg string, keysAndValues ...any)
	Close() error
}

package logging

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"io"
	"os"
	"sync"
)

var (
	logger *logrus.Logger
	mu     sync.Mutex
)

// Options controls where and how verbosely the process logs.
type Options struct {
	Level logrus.Level
	// File, when set, receives a copy of every line and is rotated by size.
	File string
}

// GetLogger returns the process-wide logger, creating it with defaults on first use.
// Packages grab it in init(), so InitLogger reconfigures the same instance instead of replacing it.
func GetLogger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = newLogger()
	}
	return logger
}

// InitLogger applies the level and output settings to the shared logger.
func InitLogger(opts Options) *logrus.Logger {
	l := GetLogger()

	mu.Lock()
	defer mu.Unlock()
	l.SetLevel(opts.Level)
	if opts.File == "" {
		l.SetOutput(os.Stderr)
		return l
	}
	l.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    2, // megabytes
		MaxBackups: 3,
	}))
	return l
}

// ParseLevel turns a LOG_LEVEL style string into a logrus level, falling back to info.
func ParseLevel(s string) logrus.Level {
	if s == "" {
		return logrus.InfoLevel
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// QueryLogLimit is how much of a user's free text is written to the log.
const QueryLogLimit = 240

// Truncate shortens free text for log lines.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + " …[truncated]"
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

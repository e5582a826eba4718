package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFilePath is the viewer's log file, relative to the working directory.
const LogFilePath = "logs/configurator.log"

// DefaultLines is how many recent entries are kept in memory for the console.
const DefaultLines = 200

// Config holds logging configuration
type Config struct {
	Level       string `json:"level"`
	Format      string `json:"format"` // "json" or "console"
	OutputPath  string `json:"output_path"`
	Development bool   `json:"development"`
	// Lines bounds the in-memory history; zero means DefaultLines.
	Lines int `json:"lines"`
}

// Logger is a zap logger that also keeps its most recent entries in memory, stamped with
// local time, so the viewer console can show them.
type Logger struct {
	*zap.Logger

	mu    sync.Mutex
	lines []string
	max   int
}

// New builds a logger from cfg. When OutputPath names a file its directory is created.
func New(cfg Config) (*Logger, error) {
	var zapConfig zap.Config
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		zapConfig.Encoding = "json"
	}

	if cfg.OutputPath != "" {
		if cfg.OutputPath != "stdout" && cfg.OutputPath != "stderr" {
			_ = os.MkdirAll(filepath.Dir(cfg.OutputPath), 0755)
		}
		zapConfig.OutputPaths = []string{cfg.OutputPath}
	}

	l := &Logger{max: cfg.Lines}
	if l.max <= 0 {
		l.max = DefaultLines
	}
	z, err := zapConfig.Build(zap.Hooks(l.record))
	if err != nil {
		return nil, err
	}
	l.Logger = z
	return l, nil
}

// Discard returns a logger that writes nowhere but still records lines.
func Discard() *Logger {
	l := &Logger{max: DefaultLines}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.AddSync(io.Discard), zap.DebugLevel)
	l.Logger = zap.New(core, zap.Hooks(l.record))
	return l
}

func (l *Logger) record(e zapcore.Entry) error {
	stamped := "[" + e.Time.Format("2006-01-02 15:04:05") + "] "
	if e.Level != zapcore.InfoLevel {
		stamped += e.Level.CapitalString() + " "
	}
	stamped += e.Message

	l.mu.Lock()
	l.lines = append(l.lines, stamped)
	if over := len(l.lines) - l.max; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
	}
	l.mu.Unlock()
	return nil
}

// Log records a line of console input at info level.
func (l *Logger) Log(line string) {
	l.Info(line)
}

// Lines returns a copy of the stored lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

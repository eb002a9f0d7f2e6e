package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"courtChecker/pkg/config"
)

// New builds the process logger. Entries go to stdout and, when a log
// directory is configured, to a daily file named YYYY-MM-DD.log.
func New(env string, cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Format {
	case "json":
		zapCfg.Encoding = "json"
	default:
		zapCfg.Encoding = "console"
	}

	if cfg.Level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(cfg.Level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapCfg.OutputPaths = []string{"stdout"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	if cfg.Dir != "" {
		logFile, err := DailyFile(cfg.Dir, time.Now())
		if err != nil {
			return nil, err
		}
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, logFile)
	}

	return zapCfg.Build()
}

// DailyFile creates dir if needed and returns the log file path for day.
func DailyFile(dir string, day time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create logs directory: %w", err)
	}

	path := filepath.Join(dir, day.Format("2006-01-02")+".log")
	if !isWithin(dir, path) {
		return "", fmt.Errorf("invalid log file path: %s", path)
	}
	return path, nil
}

func isWithin(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(absPath, absDir+string(filepath.Separator))
}

// BrowserLogf adapts chromedp's printf-style callbacks to the logger.
// Only errors and failures are kept; cookie parsing and unmarshal noise is dropped.
func BrowserLogf(l *zap.Logger) func(string, ...interface{}) {
	sugar := l.Sugar()
	return func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		if (strings.Contains(msg, "error") || strings.Contains(msg, "failed")) &&
			!strings.Contains(msg, "cookiePart") &&
			!strings.Contains(msg, "unmarshal event") {
			sugar.Warnw("browser", "message", msg)
		}
	}
}

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"canvas-portal/internal/config"

	"github.com/sirupsen/logrus"
)

var (
	defaultLogger = newLogger(os.Stderr, logrus.WarnLevel)
)

// LogLevel 日志级别类型
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// GetLogLevelFromString converts a configured level name; unknown names map to WARN.
func GetLogLevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return WARN
	}
}

func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case DEBUG:
		return logrus.DebugLevel
	case INFO:
		return logrus.InfoLevel
	case ERROR:
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

/**
 * Initialize logging for CLI usage
 * @param {*config.LogConfig} cfg - Logging configuration
 * @description
 * - "console" or empty path writes to stdout
 * - Any other path is opened in append mode, falling back to stdout on failure
 */
func InitLogger(cfg *config.LogConfig) {
	var output io.Writer = os.Stdout
	if cfg.Path != "console" && cfg.Path != "" {
		output = setupLogFileOutput(cfg.Path)
	}
	defaultLogger = newLogger(output, GetLogLevelFromString(cfg.Level).logrusLevel())
}

// InitLoggerWithMode 根据运行模式初始化日志系统
// isServerMode: true表示HTTP服务器模式, 日志同时输出到控制台
func InitLoggerWithMode(cfg *config.LogConfig, isServerMode bool) {
	var output io.Writer = os.Stderr
	if cfg.Path != "console" && cfg.Path != "" {
		output = setupLogFileOutput(cfg.Path)
		if isServerMode {
			output = io.MultiWriter(os.Stdout, output)
		}
	} else if isServerMode {
		output = os.Stdout
	}
	defaultLogger = newLogger(output, GetLogLevelFromString(cfg.Level).logrusLevel())
}

// SetOutput redirects the logger, used by tests to capture output.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// setupLogFileOutput 设置日志文件输出
func setupLogFileOutput(logPath string) io.Writer {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		return os.Stdout
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		return os.Stdout
	}
	return file
}

// WithField returns an entry carrying a structured field.
func WithField(key string, value interface{}) *logrus.Entry {
	return defaultLogger.WithField(key, value)
}

func Debug(v ...interface{}) {
	defaultLogger.Debug(v...)
}

func Debugf(format string, v ...interface{}) {
	defaultLogger.Debugf(format, v...)
}

func Info(v ...interface{}) {
	defaultLogger.Info(v...)
}

func Infof(format string, v ...interface{}) {
	defaultLogger.Infof(format, v...)
}

func Warn(v ...interface{}) {
	defaultLogger.Warn(v...)
}

func Warnf(format string, v ...interface{}) {
	defaultLogger.Warnf(format, v...)
}

func Error(v ...interface{}) {
	defaultLogger.Error(v...)
}

func Errorf(format string, v ...interface{}) {
	defaultLogger.Errorf(format, v...)
}

// Fatal 输出致命错误日志并退出程序
func Fatal(v ...interface{}) {
	defaultLogger.Fatal(v...)
}

func Fatalf(format string, v ...interface{}) {
	defaultLogger.Fatalf(format, v...)
}

package logging

import (
	"io"
	"os"
	"sync"
)

// LogLevel 日志级别
type LogLevel int

const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// String 返回日志级别的字符串表示
func (l LogLevel) String() string {
	switch l {
	case LogLevelTrace:
		return "TRACE"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Field 日志字段
type Field struct {
	Key   string
	Value any
}

// Logger 结构化日志接口
type Logger interface {
	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)
	Log(level LogLevel, msg string, fields ...Field)
	WithFields(fields ...Field) Logger
	WithCategory(category string) Logger
}

// LoggerFactory 日志工厂接口
type LoggerFactory interface {
	CreateLogger(category string) Logger
	SetMinimumLevel(level LogLevel)
}

// loggerFactory 日志工厂实现
type loggerFactory struct {
	writer       io.Writer
	formatter    Formatter
	minimumLevel LogLevel
	mu           sync.Mutex
}

func (f *loggerFactory) CreateLogger(category string) Logger {
	return &writerLogger{
		factory:  f,
		category: category,
	}
}

func (f *loggerFactory) SetMinimumLevel(level LogLevel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minimumLevel = level
}

// write 序列化并输出一条日志；写入在工厂级互斥，避免行交错
func (f *loggerFactory) write(entry *LogEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if entry.Level < f.minimumLevel {
		return
	}

	line, err := f.formatter.Format(entry)
	if err != nil {
		return
	}
	f.writer.Write(line)
}

// writerLogger Logger 实现，携带分类名与预置字段
type writerLogger struct {
	factory  *loggerFactory
	category string
	fields   []Field
}

func (l *writerLogger) Trace(msg string, fields ...Field) { l.Log(LogLevelTrace, msg, fields...) }
func (l *writerLogger) Debug(msg string, fields ...Field) { l.Log(LogLevelDebug, msg, fields...) }
func (l *writerLogger) Info(msg string, fields ...Field)  { l.Log(LogLevelInfo, msg, fields...) }
func (l *writerLogger) Warn(msg string, fields ...Field)  { l.Log(LogLevelWarn, msg, fields...) }
func (l *writerLogger) Error(msg string, fields ...Field) { l.Log(LogLevelError, msg, fields...) }

func (l *writerLogger) Fatal(msg string, fields ...Field) {
	l.Log(LogLevelFatal, msg, fields...)
	os.Exit(1)
}

func (l *writerLogger) Log(level LogLevel, msg string, fields ...Field) {
	allFields := l.fields
	if len(fields) > 0 {
		allFields = make([]Field, 0, len(l.fields)+len(fields))
		allFields = append(allFields, l.fields...)
		allFields = append(allFields, fields...)
	}

	l.factory.write(&LogEntry{
		Time:     now(),
		Level:    level,
		Category: l.category,
		Message:  msg,
		Fields:   allFields,
	})
}

func (l *writerLogger) WithFields(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &writerLogger{
		factory:  l.factory,
		category: l.category,
		fields:   merged,
	}
}

func (l *writerLogger) WithCategory(category string) Logger {
	return &writerLogger{
		factory:  l.factory,
		category: category,
		fields:   l.fields,
	}
}

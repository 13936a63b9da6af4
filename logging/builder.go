package logging

import (
	"io"
	"os"
)

// LoggingBuilder 日志构建器
type LoggingBuilder struct {
	writer       io.Writer
	formatter    Formatter
	minimumLevel LogLevel
}

// NewLoggingBuilder 创建日志构建器，默认输出文本格式到标准输出
func NewLoggingBuilder() *LoggingBuilder {
	return &LoggingBuilder{
		writer:       os.Stdout,
		formatter:    &TextFormatter{},
		minimumLevel: LogLevelInfo,
	}
}

// SetMinimumLevel 设置最小日志级别
func (b *LoggingBuilder) SetMinimumLevel(level LogLevel) *LoggingBuilder {
	b.minimumLevel = level
	return b
}

// SetOutput 设置输出目标
func (b *LoggingBuilder) SetOutput(w io.Writer) *LoggingBuilder {
	b.writer = w
	return b
}

// UseText 使用文本格式
func (b *LoggingBuilder) UseText() *LoggingBuilder {
	b.formatter = &TextFormatter{}
	return b
}

// UseJson 使用 JSON 格式
func (b *LoggingBuilder) UseJson() *LoggingBuilder {
	b.formatter = &JsonFormatter{}
	return b
}

// SetFormatter 使用自定义格式化器
func (b *LoggingBuilder) SetFormatter(f Formatter) *LoggingBuilder {
	b.formatter = f
	return b
}

// Build 构建日志工厂
func (b *LoggingBuilder) Build() LoggerFactory {
	return &loggerFactory{
		writer:       b.writer,
		formatter:    b.formatter,
		minimumLevel: b.minimumLevel,
	}
}

// NewLogger 创建一个默认的文本 Logger（便于测试使用）
func NewLogger() Logger {
	return NewLoggingBuilder().Build().CreateLogger("default")
}

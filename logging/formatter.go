package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// now 可替换的时钟（测试中固定时间用）
var now = time.Now

// Formatter 日志格式化接口
type Formatter interface {
	// Format 格式化日志条目为一行输出（含换行符）
	Format(entry *LogEntry) ([]byte, error)
}

// LogEntry 日志条目
type LogEntry struct {
	Time     time.Time
	Level    LogLevel
	Category string
	Message  string
	Fields   []Field
}

// TextFormatter 文本格式化器
type TextFormatter struct {
	// TimestampFormat 时间戳格式，默认 "2006-01-02 15:04:05"
	TimestampFormat string
}

func (f *TextFormatter) Format(entry *LogEntry) ([]byte, error) {
	layout := f.TimestampFormat
	if layout == "" {
		layout = "2006-01-02 15:04:05"
	}

	var buf bytes.Buffer
	buf.WriteString(entry.Time.Format(layout))
	buf.WriteString(" [")
	buf.WriteString(entry.Level.String())
	buf.WriteString("] ")
	if entry.Category != "" {
		buf.WriteString(entry.Category)
		buf.WriteString(": ")
	}
	buf.WriteString(entry.Message)

	for _, field := range entry.Fields {
		fmt.Fprintf(&buf, " %s=%v", field.Key, field.Value)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// JsonFormatter JSON 格式化器
type JsonFormatter struct{}

func (f *JsonFormatter) Format(entry *LogEntry) ([]byte, error) {
	record := map[string]any{
		"time":     entry.Time.Format(time.RFC3339),
		"level":    entry.Level.String(),
		"category": entry.Category,
		"message":  entry.Message,
	}
	for _, field := range entry.Fields {
		record[field.Key] = field.Value
	}

	line, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return append(line, '\n'), nil
}

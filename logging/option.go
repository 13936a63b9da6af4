package logging

import (
	"github.com/gocrud/inject/core"
	"github.com/gocrud/inject/di"
)

// BuilderOption 用于配置 LoggingBuilder
type BuilderOption func(*LoggingBuilder)

// WithMinimumLevel 设置最小日志级别
func WithMinimumLevel(level LogLevel) BuilderOption {
	return func(b *LoggingBuilder) {
		b.SetMinimumLevel(level)
	}
}

// WithJson 使用 JSON 格式输出
func WithJson() BuilderOption {
	return func(b *LoggingBuilder) {
		b.UseJson()
	}
}

// New 启用日志能力
// 注册 LoggerFactory 与默认 Logger 到 DI 容器，并接管 Runtime 错误输出
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := NewLoggingBuilder()
		for _, opt := range opts {
			opt(builder)
		}

		factory := builder.Build()
		logger := factory.CreateLogger("app")

		if err := di.Instance[LoggerFactory](rt.Container, factory); err != nil {
			return err
		}
		if err := di.Instance[Logger](rt.Container, logger); err != nil {
			return err
		}

		rt.ErrorHandler = func(err error) {
			logger.Error("runtime error", Field{Key: "error", Value: err.Error()})
		}

		core.SetFeature[LoggerFactory](rt, factory)
		return nil
	}
}

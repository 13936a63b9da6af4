package web

import (
	"context"
	"fmt"
	"sync"

	"github.com/gocrud/inject/core"
	"github.com/gocrud/inject/di"
	"github.com/gocrud/inject/logging"
)

// BuilderOption 用于配置 Web Builder
type BuilderOption func(*Builder)

// WithPort 设置端口
func WithPort(port int) BuilderOption {
	return func(b *Builder) {
		b.UsePort(port)
	}
}

// WithControllers 添加控制器
func WithControllers(controllers ...any) BuilderOption {
	return func(b *Builder) {
		b.AddControllers(controllers...)
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger logging.Logger) BuilderOption {
	return func(b *Builder) {
		b.UseLogger(logger)
	}
}

// New 启用 Web 能力
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := NewBuilder()

		// 容器中已注册 Logger 时自动使用
		if logger, err := di.Resolve[logging.Logger](rt.Container); err == nil {
			builder.UseLogger(logger.WithCategory("web"))
		}

		for _, opt := range opts {
			opt(builder)
		}

		// 注册为 Feature，允许应用在启动前继续定制路由
		rt.Features.Set(builder)

		if err := builder.RegisterServices(rt.Container); err != nil {
			return fmt.Errorf("web: failed to register services: %w", err)
		}

		// Host 延迟到启动阶段构建，保证控制器依赖已全部注册；
		// 构建后注册为 Feature，便于测试获取监听地址
		return core.WithHostedService(&deferredHost{builder: builder, rt: rt})(rt)
	}
}

// deferredHost 在 Start 时才构建真正的 Host
type deferredHost struct {
	builder *Builder
	rt      *core.Runtime
	once    sync.Once
	host    *Host
}

func (d *deferredHost) resolve() *Host {
	d.once.Do(func() {
		d.host = d.builder.Build(d.rt.Container)
		d.rt.Features.Set(d.host)
	})
	return d.host
}

func (d *deferredHost) Start(ctx context.Context) error {
	return d.resolve().Start(ctx)
}

func (d *deferredHost) Stop(ctx context.Context) error {
	return d.resolve().Stop(ctx)
}

package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/gocrud/inject/core"
	"github.com/gocrud/inject/di"
	"github.com/gocrud/inject/logging"
)

// DefaultName 默认数据库实例名
const DefaultName = "default"

// BuilderOption 用于配置 Database Builder
type BuilderOption func(*Builder)

// WithDatabase 添加数据库配置
func WithDatabase(name string, dialector gorm.Dialector, opts ...func(*Options)) BuilderOption {
	return func(b *Builder) {
		var configure func(*Options)
		if len(opts) > 0 {
			configure = func(o *Options) {
				for _, opt := range opts {
					opt(o)
				}
			}
		}
		b.Add(name, dialector, configure)
	}
}

// New 启用数据库能力
// 命名实例通过 *Factory 获取，default 实例同时注册为 *gorm.DB
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := NewBuilder()
		for _, opt := range opts {
			opt(builder)
		}

		var logger logging.Logger
		if resolved, err := di.Resolve[logging.Logger](rt.Container); err == nil {
			logger = resolved.WithCategory("database")
		}

		factory, err := builder.Build(logger)
		if err != nil {
			return err
		}
		if factory == nil {
			return nil
		}

		if err := rt.Container.AddInstance(factory); err != nil {
			return fmt.Errorf("database: failed to register factory: %w", err)
		}

		if db, err := factory.Get(DefaultName); err == nil {
			if err := rt.Container.AddInstance(db); err != nil {
				return fmt.Errorf("database: failed to register default instance: %w", err)
			}
		}

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			if logger != nil {
				logger.Info("closing database connections")
			}
			return factory.Close()
		})

		return nil
	}
}

package mongodb

import (
	"context"
	"fmt"

	"github.com/gocrud/mgo"

	"github.com/gocrud/inject/core"
	"github.com/gocrud/inject/di"
	"github.com/gocrud/inject/logging"
)

// DefaultName 默认客户端名
const DefaultName = "default"

// BuilderOption 用于配置 MongoDB Builder
type BuilderOption func(*Builder)

// WithClient 添加 MongoDB 客户端配置
func WithClient(name string, uri string, opts ...func(*MongoOptions)) BuilderOption {
	return func(b *Builder) {
		var configure func(*MongoOptions)
		if len(opts) > 0 {
			configure = func(o *MongoOptions) {
				for _, opt := range opts {
					opt(o)
				}
			}
		}
		b.Add(name, uri, configure)
	}
}

// New 启用 MongoDB 能力
// 命名客户端通过 *MongoFactory 获取，default 客户端同时注册为 *mgo.Client
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := NewBuilder()
		for _, opt := range opts {
			opt(builder)
		}

		var logger logging.Logger
		if resolved, err := di.Resolve[logging.Logger](rt.Container); err == nil {
			logger = resolved.WithCategory("mongodb")
		}

		factory, err := builder.Build(logger)
		if err != nil {
			return err
		}
		if factory == nil {
			return nil
		}

		if err := rt.Container.AddInstance(factory); err != nil {
			return fmt.Errorf("mongodb: failed to register factory: %w", err)
		}

		if client, err := factory.Get(DefaultName); err == nil {
			if err := di.Instance[*mgo.Client](rt.Container, client); err != nil {
				return fmt.Errorf("mongodb: failed to register default client: %w", err)
			}
		}

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			if logger != nil {
				logger.Info("closing mongo clients")
			}
			return factory.Close()
		})

		return nil
	}
}

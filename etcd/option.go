package etcd

import (
	"context"
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/gocrud/inject/core"
	"github.com/gocrud/inject/di"
	"github.com/gocrud/inject/logging"
)

// DefaultName 默认客户端名
const DefaultName = "default"

// BuilderOption 用于配置 Etcd Builder
type BuilderOption func(*Builder)

// WithClient 添加 etcd 客户端配置
func WithClient(name string, opts ...func(*ClientOptions)) BuilderOption {
	return func(b *Builder) {
		var configure func(*ClientOptions)
		if len(opts) > 0 {
			configure = func(o *ClientOptions) {
				for _, opt := range opts {
					opt(o)
				}
			}
		}
		b.AddClient(name, configure)
	}
}

// New 启用 etcd 能力
// 命名客户端通过 *ClientFactory 获取，default 客户端同时注册为 *clientv3.Client
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := NewBuilder()
		for _, opt := range opts {
			opt(builder)
		}

		var logger logging.Logger
		if resolved, err := di.Resolve[logging.Logger](rt.Container); err == nil {
			logger = resolved.WithCategory("etcd")
		}

		factory, err := builder.Build(logger)
		if err != nil {
			return err
		}
		if factory == nil {
			return nil
		}

		if err := rt.Container.AddInstance(factory); err != nil {
			return fmt.Errorf("etcd: failed to register factory: %w", err)
		}

		if client, err := factory.Get(DefaultName); err == nil {
			if err := di.Instance[*clientv3.Client](rt.Container, client); err != nil {
				return fmt.Errorf("etcd: failed to register default client: %w", err)
			}
		}

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			if logger != nil {
				logger.Info("closing etcd clients")
			}
			return factory.Close()
		})

		return nil
	}
}

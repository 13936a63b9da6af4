package core

import (
	"context"
	"fmt"

	"github.com/gocrud/inject/di"
)

// WithHostedService 注册一个托管服务
// 框架会在 OnStart 时启动 Goroutine 调用 Start，在 OnStop 时调用 Stop。
func WithHostedService(service HostedService) Option {
	return func(rt *Runtime) error {
		if service == nil {
			return fmt.Errorf("WithHostedService: service is nil")
		}

		var serviceCtx context.Context
		var serviceCancel context.CancelFunc

		rt.Lifecycle.OnStart(func(ctx context.Context) error {
			// 创建服务上下文，生命周期伴随应用运行
			serviceCtx, serviceCancel = context.WithCancel(context.Background())

			// 异步调用 Start，允许 Start 方法阻塞
			go func() {
				if err := service.Start(serviceCtx); err != nil {
					if rt.ErrorHandler != nil {
						rt.ErrorHandler(fmt.Errorf("hosted service %T exited with error: %w", service, err))
					}
					// 触发应用退出 (Fail Fast)
					rt.Shutdown()
				}
			}()
			return nil
		})

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			if serviceCancel != nil {
				serviceCancel()
			}
			return service.Stop(ctx)
		})

		return nil
	}
}

// HostService 注册由容器构造的托管服务
// 工厂函数的参数从容器解析，服务实例在启动阶段才真正构造
func HostService[T HostedService](factory any) Option {
	return func(rt *Runtime) error {
		if err := di.Factory[T](rt.Container, factory); err != nil {
			return fmt.Errorf("HostService: %w", err)
		}

		var serviceCtx context.Context
		var serviceCancel context.CancelFunc
		var service HostedService

		rt.Lifecycle.OnStart(func(ctx context.Context) error {
			resolved, err := di.Resolve[T](rt.Container)
			if err != nil {
				return fmt.Errorf("HostService: resolve %v: %w", di.TypeOf[T](), err)
			}
			service = resolved

			serviceCtx, serviceCancel = context.WithCancel(context.Background())
			go func() {
				if err := service.Start(serviceCtx); err != nil {
					if rt.ErrorHandler != nil {
						rt.ErrorHandler(fmt.Errorf("hosted service %T exited with error: %w", service, err))
					}
					rt.Shutdown()
				}
			}()
			return nil
		})

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			if serviceCancel != nil {
				serviceCancel()
			}
			if service == nil {
				return nil
			}
			return service.Stop(ctx)
		})

		return nil
	}
}

// WorkerFunc 定义简单的后台任务函数
// 这是一个阻塞函数，通过 ctx.Done() 判断退出。
type WorkerFunc func(ctx context.Context) error

// WithWorker 将一个阻塞的函数注册为后台服务
// 框架会自动将其适配为 HostedService (异步启动，Cancel 停止)
func WithWorker(fn WorkerFunc) Option {
	return func(rt *Runtime) error {
		var workerCtx context.Context
		var workerCancel context.CancelFunc

		rt.Lifecycle.OnStart(func(ctx context.Context) error {
			// 使用 Background 确保 Worker 存活到应用停止
			workerCtx, workerCancel = context.WithCancel(context.Background())

			go func() {
				if err := fn(workerCtx); err != nil {
					if rt.ErrorHandler != nil {
						rt.ErrorHandler(fmt.Errorf("worker exited with error: %w", err))
					}
					rt.Shutdown()
				}
			}()
			return nil
		})

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			if workerCancel != nil {
				workerCancel()
			}
			return nil
		})

		return nil
	}
}

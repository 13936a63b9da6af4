package core

import "github.com/gocrud/inject/di"

// WithInstance 注册预构建实例，键为实例的运行时类型
func WithInstance(value any) Option {
	return func(rt *Runtime) error {
		return rt.Container.AddInstance(value)
	}
}

// Provide 以 T 为键注册工厂函数
func Provide[T any](factory any) Option {
	return func(rt *Runtime) error {
		return di.Factory[T](rt.Container, factory)
	}
}

// ProvideInstance 以显式类型键 T 注册预构建实例
// 可以把具体实现注册到接口键下
func ProvideInstance[T any](value T) Option {
	return func(rt *Runtime) error {
		return di.Instance[T](rt.Container, value)
	}
}

// ProvideClass 为结构体类型 T 注册惰性构造工厂
func ProvideClass[T any]() Option {
	return func(rt *Runtime) error {
		return di.Class[T](rt.Container)
	}
}

package di

import (
	"fmt"
	"reflect"
)

// TypeOf 获取类型 T 的 reflect.Type（泛型辅助函数）。
// 这是向注册表提供显式类型令牌的标准方式，对接口类型尤其必要。
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Factory 以 T 为键注册工厂函数。
//
// 示例：
//
//	di.Factory[*Database](c, func(cfg *Config) (*Database, error) {
//	    return Open(cfg.DSN)
//	})
func Factory[T any](c *Container, factory any) error {
	return c.AddFactory(TypeOf[T](), factory)
}

// Instance 以显式类型键 T 注册预构建实例。
// 与 AddInstance 不同，键由注册方指定而非实例的运行时类型，
// 因此可以把具体实现注册到接口键下。
func Instance[T any](c *Container, value T) error {
	return c.addInstanceAs(TypeOf[T](), value)
}

// Class 为结构体类型 T 注册惰性构造工厂。
//
// 示例：
//
//	di.Class[*UserService](c)
func Class[T any](c *Container) error {
	return c.AddClass(TypeOf[T]())
}

// Resolve 从容器解析类型 T 的值。
func Resolve[T any](c *Container) (T, error) {
	var zero T
	value, err := c.Get(TypeOf[T]())
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, errInvalidArgument("resolved value is %T, expected %v", value, TypeOf[T]())
	}
	return typed, nil
}

// MustResolve 从容器解析类型 T 的值，失败时 panic。
// 仅用于启动装配阶段，运行期请使用 Resolve。
func MustResolve[T any](c *Container) T {
	value, err := Resolve[T](c)
	if err != nil {
		panic(fmt.Sprintf("di: resolve %v: %v", TypeOf[T](), err))
	}
	return value
}

// New 构造类型 T 的新实例（Create 的泛型封装）。
func New[T any](c *Container) (T, error) {
	var zero T
	value, err := c.Create(TypeOf[T]())
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, errInvalidArgument("created value is %T, expected %v", value, TypeOf[T]())
	}
	return typed, nil
}

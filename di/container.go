package di

import (
	"reflect"
)

// Container 是反射驱动的依赖注入容器。
//
// 容器持有两张注册表：类型 -> 工厂函数，类型 -> 预构建实例。
// 解析时实例表优先；工厂通过 Invoke 惰性调用，参数自动注入。
//
// 容器被设计为单线程的构造期装配工具：所有操作同步完成，内部不加锁。
// 如果多个 goroutine 共享同一容器，调用方必须自行串行化访问。
type Container struct {
	factories map[reflect.Type]any
	instances map[reflect.Type]any

	// resolving 是当前正在构造的类型栈，仅用于单次顶层调用内的循环检测。
	// 每次顶层 Invoke/Create/Get 结束后（无论成败）必须回到空。
	resolving []reflect.Type
}

// NewContainer 创建一个新的空容器。
// 注册表和解析栈归该实例独占，不存在进程级共享状态。
func NewContainer() *Container {
	return &Container{
		factories: make(map[reflect.Type]any),
		instances: make(map[reflect.Type]any),
	}
}

// AddFactory 注册类型 typ 的工厂函数。
// factory 必须是非可变参数的函数；重复注册静默覆盖旧条目。
func (c *Container) AddFactory(typ reflect.Type, factory any) error {
	if typ == nil {
		return errInvalidArgument("factory type must not be nil")
	}
	if factory == nil {
		return errInvalidArgument("factory for %v must not be nil", typ)
	}
	fnType := reflect.TypeOf(factory)
	if fnType.Kind() != reflect.Func {
		return errInvalidArgument("factory for %v must be a function, got %v", typ, fnType)
	}
	if fnType.IsVariadic() {
		return errInvalidArgument("factory for %v must not be variadic", typ)
	}
	if fnType.NumOut() == 0 {
		return errInvalidArgument("factory for %v must return at least one value", typ)
	}
	// 双向可赋值都接受：具体类型注册到接口键，或返回 any 的包装工厂注册到具体键。
	// 两个方向都不成立说明键与返回值确定不兼容，提前在注册处报错。
	if out := fnType.Out(0); !out.AssignableTo(typ) && !typ.AssignableTo(out) {
		return errInvalidArgument("factory for %v returns incompatible type %v", typ, out)
	}

	c.factories[typ] = factory
	return nil
}

// AddInstance 注册一个预构建实例，键为实例自身的运行时类型。
// 需要以接口类型为键时，使用泛型辅助函数 Instance[T]。
func (c *Container) AddInstance(instance any) error {
	if instance == nil {
		return errInvalidArgument("instance must not be nil")
	}
	typ := reflect.TypeOf(instance)
	if isNilValue(reflect.ValueOf(instance)) {
		return errInvalidArgument("instance of %v must not be a nil value", typ)
	}

	return c.addInstanceAs(typ, instance)
}

// addInstanceAs 以显式类型键存储实例（泛型辅助函数的落点）。
func (c *Container) addInstanceAs(typ reflect.Type, instance any) error {
	if instance == nil {
		return errInvalidArgument("instance for %v must not be nil", typ)
	}

	c.instances[typ] = instance
	return nil
}

// AddClass 为结构体类型 typ 注册一个惰性工厂：
// 解析时委托给 Create(typ)，即通过其 di 标签字段构造新实例。
func (c *Container) AddClass(typ reflect.Type) error {
	if typ == nil {
		return errInvalidArgument("class type must not be nil")
	}
	if base := derefStruct(typ); base == nil {
		return errInvalidArgument("class type must be a struct or struct pointer, got %v", typ)
	}

	c.factories[typ] = func() (any, error) {
		return c.Create(typ)
	}
	return nil
}

// Has 判断 typ 是否存在于任一注册表中。
func (c *Container) Has(typ reflect.Type) bool {
	if _, ok := c.instances[typ]; ok {
		return true
	}
	_, ok := c.factories[typ]
	return ok
}

// Remove 从两个注册表中移除 typ。移除不存在的类型不是错误。
func (c *Container) Remove(typ reflect.Type) {
	delete(c.instances, typ)
	delete(c.factories, typ)
}

// derefStruct 返回 typ 的底层结构体类型；typ 不是结构体或结构体指针时返回 nil。
func derefStruct(typ reflect.Type) reflect.Type {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}
	return typ
}

// isNilValue 判断 v 是否为可为 nil 的种类且值为 nil
func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

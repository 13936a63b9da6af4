package di

import (
	"reflect"
)

// Invoke 调用 callable 并自动注入其参数。
//
// 参数按声明顺序逐个经 Get 解析；任一解析失败都会原样传播，
// 调用不会发生。返回值约定沿用工厂惯例：第一个返回值作为结果，
// 末尾的 error 返回值（若有且非 nil）作为调用失败传出。
func (c *Container) Invoke(callable any) (any, error) {
	if callable == nil {
		return nil, errInvalidArgument("callable must not be nil")
	}
	fn := reflect.ValueOf(callable)
	if fn.Kind() != reflect.Func {
		return nil, errInvalidArgument("callable must be a function, got %T", callable)
	}
	return c.invokeValue(fn)
}

// InvokeMethod 调用 target 上名为 method 的方法并注入其参数。
// 这是绑定方法形式的调用入口，等价于 Invoke(target.Method)。
func (c *Container) InvokeMethod(target any, method string) (any, error) {
	if target == nil {
		return nil, errInvalidArgument("method target must not be nil")
	}
	m := reflect.ValueOf(target).MethodByName(method)
	if !m.IsValid() {
		return nil, errInvalidArgument("type %T has no method %s", target, method)
	}
	return c.invokeValue(m)
}

func (c *Container) invokeValue(fn reflect.Value) (any, error) {
	descriptors, err := callableDescriptors(fn.Type())
	if err != nil {
		return nil, err
	}

	args := make([]reflect.Value, len(descriptors))
	for i, desc := range descriptors {
		arg, err := c.resolveParam(desc)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	results := fn.Call(args)
	return splitResults(results)
}

// Create 通过 di 标签字段构造类型 typ 的新实例。
//
// typ 必须是结构体或结构体指针；每次调用都产生新实例，不做缓存。
// 字段解析规则与 Invoke 的参数一致：必需字段缺失即失败，
// di:"?" 字段缺失保持零值。
func (c *Container) Create(typ reflect.Type) (any, error) {
	if typ == nil {
		return nil, errInvalidArgument("create type must not be nil")
	}
	descriptors, err := classDescriptors(typ)
	if err != nil {
		return nil, err
	}

	base := derefStruct(typ)
	ptr := reflect.New(base)
	elem := ptr.Elem()

	for _, desc := range descriptors {
		value, err := c.Get(desc.Type)
		if err != nil {
			if desc.Optional && IsUnknownDependency(err) {
				continue
			}
			return nil, err
		}
		elem.Field(desc.Index).Set(reflect.ValueOf(value))
	}

	if typ.Kind() == reflect.Pointer {
		return ptr.Interface(), nil
	}
	return elem.Interface(), nil
}

// splitResults 按工厂惯例拆解返回值：
// 末尾的 error 非 nil 则调用失败；否则返回第一个值（无返回值时为 nil）。
func splitResults(results []reflect.Value) (any, error) {
	if len(results) == 0 {
		return nil, nil
	}

	last := results[len(results)-1]
	if last.Type().Implements(errorType) {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		if len(results) == 1 {
			return nil, nil
		}
	}

	return results[0].Interface(), nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

package di

import (
	"reflect"
)

// Get 将类型 typ 解析为一个值。
//
// 查找顺序：实例表优先，其次工厂表。工厂路径受解析栈保护：
// typ 已在栈上说明其构造过程（直接或间接）又需要它自己，
// 在重复入栈之前即以 ErrRecursiveDependency 失败。
// 出栈放在 defer 中，保证失败路径同样恢复栈，后续解析不受污染。
func (c *Container) Get(typ reflect.Type) (any, error) {
	if instance, ok := c.instances[typ]; ok {
		return instance, nil
	}

	factory, ok := c.factories[typ]
	if !ok {
		return nil, errUnknownDependency(typ)
	}

	if c.isResolving(typ) {
		return nil, errRecursiveDependency(typ)
	}

	c.resolving = append(c.resolving, typ)
	defer func() {
		c.resolving = c.resolving[:len(c.resolving)-1]
	}()

	// 工厂每次都重新调用；容器唯一的缓存就是实例表本身
	result, err := c.Invoke(factory)
	if err != nil {
		return nil, err
	}
	// nil 结果在这里拦截，否则会以零值 reflect.Value 流入 Call/Set 导致 panic
	if result == nil || isNilValue(reflect.ValueOf(result)) {
		return nil, errInvalidArgument("factory for %v returned nil instance", typ)
	}
	return result, nil
}

func (c *Container) isResolving(typ reflect.Type) bool {
	for _, t := range c.resolving {
		if t == typ {
			return true
		}
	}
	return false
}

// resolveParam 按描述符解析单个参数值。
// 可缺省参数在依赖未注册时得到显式的缺省标记（零值 Optional），
// 其他解析失败原样向上传播。
func (c *Container) resolveParam(desc paramDescriptor) (reflect.Value, error) {
	if desc.Optional {
		elem := optionalElem(desc.Type)
		value, err := c.Get(elem)
		if err != nil {
			if IsUnknownDependency(err) {
				return makeOptional(desc.Type, nil, false), nil
			}
			return reflect.Value{}, err
		}
		return makeOptional(desc.Type, value, true), nil
	}

	value, err := c.Get(desc.Type)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(value), nil
}

package di

import (
	"reflect"
	"strings"
)

// Optional 将函数参数声明为可缺省依赖。
//
// 当 T 未注册时，Invoke 不会失败，而是注入零值的 Optional[T]
// （Exists 为 false）。结构体字段的等价写法是 di:"?" 标签。
//
// 示例：
//
//	c.Invoke(func(cache di.Optional[*Cache]) {
//	    if cache.Exists {
//	        cache.Value.Warm()
//	    }
//	})
type Optional[T any] struct {
	Value  T
	Exists bool
}

// optionalMarker 用于识别 Optional 的泛型实例化类型
var optionalMarker = reflect.TypeOf(Optional[struct{}]{})

// isOptionalType 判断 typ 是否为 Optional[T] 的某个实例化
func isOptionalType(typ reflect.Type) bool {
	return typ.Kind() == reflect.Struct &&
		typ.PkgPath() == optionalMarker.PkgPath() &&
		strings.HasPrefix(typ.Name(), "Optional[")
}

// optionalElem 返回 Optional[T] 中 T 的类型（即 Value 字段的类型）
func optionalElem(typ reflect.Type) reflect.Type {
	return typ.Field(0).Type
}

// makeOptional 构造一个 Optional[T] 值；present 为 false 时 Value 保持零值
func makeOptional(typ reflect.Type, value any, present bool) reflect.Value {
	wrapper := reflect.New(typ).Elem()
	if present {
		wrapper.Field(0).Set(reflect.ValueOf(value))
		wrapper.Field(1).SetBool(true)
	}
	return wrapper
}

package core

import (
	"reflect"
	"sync"
)

// FeatureCollection 是一个类型安全的特性集合
// 用于存放 WebBuilder, DatabaseBuilder 等构建时特性
type FeatureCollection struct {
	features sync.Map
}

// Set 注册一个特性
func (fc *FeatureCollection) Set(feature any) {
	typ := reflect.TypeOf(feature)
	fc.features.Store(typ, feature)
}

// Get 获取一个特性
func (fc *FeatureCollection) Get(typ reflect.Type) (any, bool) {
	return fc.features.Load(typ)
}

// SetFeature 以显式类型键 T 注册特性
// 把实现注册到接口键下时必须用它，Set 只按运行时具体类型键注册
func SetFeature[T any](rt *Runtime, feature T) {
	rt.Features.features.Store(reflect.TypeOf((*T)(nil)).Elem(), feature)
}

// GetFeature 泛型辅助函数，从 Runtime 获取特性
// T 为接口时不能用 reflect.TypeOf(zero)（nil 接口），
// 必须用 reflect.TypeOf((*T)(nil)).Elem()
func GetFeature[T any](rt *Runtime) T {
	var zero T
	targetType := reflect.TypeOf((*T)(nil)).Elem()

	if val, ok := rt.Features.Get(targetType); ok {
		return val.(T)
	}
	return zero
}

package di

import (
	"errors"
	"fmt"
	"reflect"
)

// 错误分类：
//   - ErrInvalidArgument 注册或反射输入非法（非函数工厂、nil 实例、非结构体类等）
//   - ErrUnknownDependency 请求的类型在两个注册表中都不存在
//   - ErrRecursiveDependency 类型在构造过程中（直接或间接）依赖自身
//
// 所有错误都在调用处同步抛出，经过 %w 包装，可通过 errors.Is 判断。
var (
	ErrInvalidArgument     = errors.New("di: invalid argument")
	ErrUnknownDependency   = errors.New("di: unknown dependency")
	ErrRecursiveDependency = errors.New("di: recursive dependency")
)

func errInvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func errUnknownDependency(typ reflect.Type) error {
	return fmt.Errorf("%w: type %v has not been registered", ErrUnknownDependency, typ)
}

func errRecursiveDependency(typ reflect.Type) error {
	return fmt.Errorf("%w: type %v is currently being constructed", ErrRecursiveDependency, typ)
}

// IsInvalidArgument 判断错误是否为注册/反射输入非法
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsUnknownDependency 判断错误是否为依赖未注册
func IsUnknownDependency(err error) bool {
	return errors.Is(err, ErrUnknownDependency)
}

// IsRecursiveDependency 判断错误是否为循环依赖
func IsRecursiveDependency(err error) bool {
	return errors.Is(err, ErrRecursiveDependency)
}

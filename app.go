package inject

import (
	"github.com/gocrud/inject/core"
	"github.com/gocrud/inject/di"
)

// NewContainer 创建一个独立的依赖注入容器
// 不需要完整应用宿主时可以单独使用
func NewContainer() *di.Container {
	return di.NewContainer()
}

// NewRuntime 创建应用运行时
// 需要手动控制生命周期时使用，通常直接用 Run 即可
func NewRuntime() *core.Runtime {
	return core.NewRuntime()
}

// Option 是应用装配的扩展点
type Option = core.Option

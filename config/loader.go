package config

import (
	"fmt"

	"github.com/gocrud/inject/core"
	"github.com/gocrud/inject/di"
)

// LoadOptions 配置加载选项
type LoadOptions struct {
	// Optional 为 true 时配置文件缺失不报错
	Optional bool
	// EnvPrefix 环境变量前缀，非空时叠加环境变量源
	EnvPrefix string
	// Sources 追加的自定义配置源（在文件与环境变量之后合并）
	Sources []Source
}

// LoadOption 配置加载选项函数
type LoadOption func(*LoadOptions)

// WithOptional 允许配置文件缺失
func WithOptional() LoadOption {
	return func(o *LoadOptions) {
		o.Optional = true
	}
}

// WithEnv 叠加环境变量配置源，覆盖文件中的同名键
func WithEnv(prefix string) LoadOption {
	return func(o *LoadOptions) {
		o.EnvPrefix = prefix
	}
}

// WithSource 追加自定义配置源
func WithSource(source Source) LoadOption {
	return func(o *LoadOptions) {
		o.Sources = append(o.Sources, source)
	}
}

// File 加载配置文件并注册 Configuration 到容器
// 支持 YAML 与 JSON (通过 YAML 解析器兼容)
func File(path string, opts ...LoadOption) core.Option {
	return func(rt *core.Runtime) error {
		options := &LoadOptions{}
		for _, opt := range opts {
			opt(options)
		}

		builder := NewConfigurationBuilder()
		builder.AddSource(&YamlFileSource{Path: path, Optional: options.Optional})
		if options.EnvPrefix != "" {
			builder.AddEnvironmentVariables(options.EnvPrefix)
		}
		for _, source := range options.Sources {
			builder.AddSource(source)
		}

		cfg, err := builder.Build()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}

		// 注册 Configuration 接口到 DI 容器，并作为 Runtime Feature 暴露
		if err := di.Instance[Configuration](rt.Container, cfg); err != nil {
			return err
		}
		core.SetFeature[Configuration](rt, cfg)
		return nil
	}
}

// Use 直接注册现成的 Configuration（测试中常用）
func Use(cfg Configuration) core.Option {
	return func(rt *core.Runtime) error {
		if err := di.Instance[Configuration](rt.Container, cfg); err != nil {
			return err
		}
		core.SetFeature[Configuration](rt, cfg)
		return nil
	}
}

// Bind 将配置节绑定到结构体 T 并以 *T 注册到 DI 容器
func Bind[T any](rt *core.Runtime, section string) error {
	return rt.Invoke(func(cfg Configuration) error {
		var settings T
		if err := cfg.Bind(section, &settings); err != nil {
			return fmt.Errorf("config: failed to bind section %q: %w", section, err)
		}
		return rt.Container.AddInstance(&settings)
	})
}

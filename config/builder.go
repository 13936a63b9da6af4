package config

import clientv3 "go.etcd.io/etcd/client/v3"

// ConfigurationBuilder 配置构建器
// 按添加顺序加载各配置源，后加入的源覆盖先加入源的同名键
type ConfigurationBuilder struct {
	sources []Source
}

// NewConfigurationBuilder 创建配置构建器
func NewConfigurationBuilder() *ConfigurationBuilder {
	return &ConfigurationBuilder{}
}

// AddSource 添加自定义配置源
func (b *ConfigurationBuilder) AddSource(source Source) *ConfigurationBuilder {
	b.sources = append(b.sources, source)
	return b
}

// AddYamlFile 添加 YAML 文件配置源
func (b *ConfigurationBuilder) AddYamlFile(path string) *ConfigurationBuilder {
	return b.AddSource(&YamlFileSource{Path: path})
}

// AddOptionalYamlFile 添加可选的 YAML 文件配置源（文件缺失时跳过）
func (b *ConfigurationBuilder) AddOptionalYamlFile(path string) *ConfigurationBuilder {
	return b.AddSource(&YamlFileSource{Path: path, Optional: true})
}

// AddYaml 添加内联 YAML 配置源
func (b *ConfigurationBuilder) AddYaml(content string) *ConfigurationBuilder {
	return b.AddSource(&YamlSource{Content: content})
}

// AddEnvironmentVariables 添加环境变量配置源
func (b *ConfigurationBuilder) AddEnvironmentVariables(prefix string) *ConfigurationBuilder {
	return b.AddSource(&EnvSource{Prefix: prefix})
}

// AddInMemory 添加内存配置源
func (b *ConfigurationBuilder) AddInMemory(data map[string]any) *ConfigurationBuilder {
	return b.AddSource(&InMemorySource{Data: data})
}

// AddEtcd 添加 etcd 配置源
func (b *ConfigurationBuilder) AddEtcd(client *clientv3.Client, prefix string) *ConfigurationBuilder {
	return b.AddSource(&EtcdSource{Client: client, Prefix: prefix})
}

// Build 加载所有配置源并合并为 Configuration
func (b *ConfigurationBuilder) Build() (Configuration, error) {
	merged := make(map[string]any)
	for _, source := range b.sources {
		data, err := source.Load()
		if err != nil {
			return nil, err
		}
		mergeMaps(merged, data)
	}
	return &configuration{data: merged}, nil
}

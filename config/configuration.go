package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration 配置接口
// 键支持 "web:port" 或 "web.port" 两种分隔风格，指向嵌套配置树
type Configuration interface {
	// Get 获取配置值（不存在时返回空字符串）
	Get(key string) string
	// GetWithDefault 获取配置值，不存在时返回默认值
	GetWithDefault(key, defaultValue string) string
	// GetInt 获取整数配置值
	GetInt(key string) (int, error)
	// GetBool 获取布尔配置值
	GetBool(key string) (bool, error)
	// GetSection 获取配置子节（不存在时返回空节）
	GetSection(key string) Configuration
	// Bind 将配置节绑定到结构体
	Bind(key string, target any) error
	// GetAll 获取整棵配置树
	GetAll() map[string]any
}

// configuration 配置实现，持有合并后的配置树
type configuration struct {
	data map[string]any
}

// NewConfiguration 从现成的配置树创建 Configuration
func NewConfiguration(data map[string]any) Configuration {
	if data == nil {
		data = make(map[string]any)
	}
	return &configuration{data: data}
}

func (c *configuration) Get(key string) string {
	value := c.lookup(key)
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (c *configuration) GetWithDefault(key, defaultValue string) string {
	if value := c.Get(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *configuration) GetInt(key string) (int, error) {
	value := c.lookup(key)
	if value == nil {
		return 0, fmt.Errorf("config: key %q not found", key)
	}

	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("config: key %q is not an integer: %v", key, value)
	}
}

func (c *configuration) GetBool(key string) (bool, error) {
	value := c.lookup(key)
	if value == nil {
		return false, fmt.Errorf("config: key %q not found", key)
	}

	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("config: key %q is not a boolean: %v", key, value)
	}
}

func (c *configuration) GetSection(key string) Configuration {
	value := c.lookup(key)
	if section, ok := value.(map[string]any); ok {
		return &configuration{data: section}
	}
	return &configuration{data: make(map[string]any)}
}

// Bind 通过 yaml 重编解码把配置节绑定到目标结构体。
// key 为空时绑定整棵配置树。
func (c *configuration) Bind(key string, target any) error {
	var source any = c.data
	if key != "" {
		source = c.lookup(key)
		if source == nil {
			return fmt.Errorf("config: section %q not found", key)
		}
	}

	raw, err := yaml.Marshal(source)
	if err != nil {
		return fmt.Errorf("config: marshal section %q: %w", key, err)
	}
	if err := yaml.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("config: bind section %q: %w", key, err)
	}
	return nil
}

func (c *configuration) GetAll() map[string]any {
	return c.data
}

// lookup 沿路径片段下钻配置树
func (c *configuration) lookup(key string) any {
	if key == "" {
		return nil
	}

	segments := splitPath(key)
	var current any = c.data
	for _, segment := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = node[segment]
		if !ok {
			return nil
		}
	}
	return current
}

// splitPath 解析键路径：支持 : 和 . 两种分隔符
func splitPath(key string) []string {
	return strings.Split(strings.ReplaceAll(key, ":", "."), ".")
}

// mergeMaps 递归合并配置树，src 覆盖 dst 中的同名键
func mergeMaps(dst, src map[string]any) {
	for key, srcValue := range src {
		if srcMap, ok := srcValue.(map[string]any); ok {
			if dstMap, ok := dst[key].(map[string]any); ok {
				mergeMaps(dstMap, srcMap)
				continue
			}
		}
		dst[key] = srcValue
	}
}

// Load 加载并绑定指定节的配置到结构体 T（泛型辅助函数）
func Load[T any](cfg Configuration, section string) (T, error) {
	var t T
	err := cfg.Bind(section, &t)
	return t, err
}

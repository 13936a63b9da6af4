package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"gopkg.in/yaml.v3"
)

// Source 配置源接口，Build 时按添加顺序加载并合并
type Source interface {
	// Load 加载配置树
	Load() (map[string]any, error)
}

// YamlFileSource YAML 文件配置源
type YamlFileSource struct {
	// Path 文件路径
	Path string
	// Optional 为 true 时文件不存在不报错
	Optional bool
}

func (s *YamlFileSource) Load() (map[string]any, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) && s.Optional {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", s.Path, err)
	}

	data := make(map[string]any)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", s.Path, err)
	}
	return normalizeTree(data), nil
}

// YamlSource 内联 YAML 配置源（测试中常用）
type YamlSource struct {
	Content string
}

func (s *YamlSource) Load() (map[string]any, error) {
	data := make(map[string]any)
	if err := yaml.Unmarshal([]byte(s.Content), &data); err != nil {
		return nil, fmt.Errorf("config: parse inline yaml: %w", err)
	}
	return normalizeTree(data), nil
}

// EnvSource 环境变量配置源
// 带前缀的环境变量按下划线拆分为嵌套键：APP_WEB_PORT=8080 → web.port
type EnvSource struct {
	// Prefix 环境变量前缀（如 "APP_"），为空时加载所有变量
	Prefix string
}

func (s *EnvSource) Load() (map[string]any, error) {
	data := make(map[string]any)
	for _, pair := range os.Environ() {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if s.Prefix != "" {
			if !strings.HasPrefix(key, s.Prefix) {
				continue
			}
			key = strings.TrimPrefix(key, s.Prefix)
		}
		if key == "" {
			continue
		}
		setPath(data, strings.Split(strings.ToLower(key), "_"), value)
	}
	return data, nil
}

// InMemorySource 内存配置源
type InMemorySource struct {
	Data map[string]any
}

func (s *InMemorySource) Load() (map[string]any, error) {
	if s.Data == nil {
		return map[string]any{}, nil
	}
	return normalizeTree(s.Data), nil
}

// EtcdSource etcd 配置源
// 按前缀读取键值，每个值作为 YAML 解析后挂到去除前缀的键路径下
type EtcdSource struct {
	// Client etcd 客户端
	Client *clientv3.Client
	// Prefix 键前缀（如 "/config/myapp/"）
	Prefix string
	// Timeout 读取超时，默认 5 秒
	Timeout time.Duration
}

func (s *EtcdSource) Load() (map[string]any, error) {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := s.Client.Get(ctx, s.Prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("config: etcd get %s: %w", s.Prefix, err)
	}

	data := make(map[string]any)
	for _, kv := range resp.Kvs {
		key := strings.TrimPrefix(string(kv.Key), s.Prefix)
		key = strings.Trim(key, "/")
		if key == "" {
			continue
		}

		var value any
		if err := yaml.Unmarshal(kv.Value, &value); err != nil {
			value = string(kv.Value)
		}
		if tree, ok := value.(map[string]any); ok {
			value = normalizeTree(tree)
		}
		setPath(data, strings.Split(key, "/"), value)
	}
	return data, nil
}

// setPath 在配置树中沿路径写入值，必要时创建中间节点
func setPath(data map[string]any, segments []string, value any) {
	current := data
	for i, segment := range segments {
		if i == len(segments)-1 {
			current[segment] = value
			return
		}
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
}

// normalizeTree 统一配置树的节点类型
// yaml 解析可能产生 map[any]any，统一转换为 map[string]any
func normalizeTree(data map[string]any) map[string]any {
	result := make(map[string]any, len(data))
	for key, value := range data {
		result[key] = normalizeValue(value)
	}
	return result
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return normalizeTree(v)
	case map[any]any:
		converted := make(map[string]any, len(v))
		for key, item := range v {
			converted[fmt.Sprintf("%v", key)] = normalizeValue(item)
		}
		return converted
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = normalizeValue(item)
		}
		return items
	default:
		return value
	}
}

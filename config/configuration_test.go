package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildConfig(t *testing.T, yaml string) Configuration {
	t.Helper()
	cfg, err := NewConfigurationBuilder().AddYaml(yaml).Build()
	require.NoError(t, err)
	return cfg
}

func TestGet_NestedKeys(t *testing.T) {
	cfg := buildConfig(t, `
web:
  host: localhost
  port: 8080
  debug: true
`)

	assert.Equal(t, "localhost", cfg.Get("web:host"))
	assert.Equal(t, "localhost", cfg.Get("web.host"))
	assert.Equal(t, "8080", cfg.Get("web:port"))
	assert.Equal(t, "true", cfg.Get("web:debug"))
	assert.Equal(t, "", cfg.Get("web:missing"))
	assert.Equal(t, "", cfg.Get("missing:deep:key"))
}

func TestGetWithDefault(t *testing.T) {
	cfg := buildConfig(t, `name: app`)

	assert.Equal(t, "app", cfg.GetWithDefault("name", "fallback"))
	assert.Equal(t, "fallback", cfg.GetWithDefault("missing", "fallback"))
}

func TestGetInt(t *testing.T) {
	cfg := buildConfig(t, `
port: 8080
label: web
`)

	port, err := cfg.GetInt("port")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	_, err = cfg.GetInt("label")
	assert.Error(t, err)

	_, err = cfg.GetInt("missing")
	assert.Error(t, err)
}

func TestGetBool(t *testing.T) {
	cfg := buildConfig(t, `
debug: true
verbose: "false"
`)

	debug, err := cfg.GetBool("debug")
	require.NoError(t, err)
	assert.True(t, debug)

	verbose, err := cfg.GetBool("verbose")
	require.NoError(t, err)
	assert.False(t, verbose)
}

func TestGetSection(t *testing.T) {
	cfg := buildConfig(t, `
database:
  dsn: "file::memory:"
  pool:
    max: 10
`)

	section := cfg.GetSection("database")
	assert.Equal(t, "file::memory:", section.Get("dsn"))
	assert.Equal(t, "10", section.Get("pool:max"))

	// 不存在的节返回空节而不是 nil
	empty := cfg.GetSection("missing")
	require.NotNil(t, empty)
	assert.Equal(t, "", empty.Get("any"))
}

type webSettings struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func TestBind(t *testing.T) {
	cfg := buildConfig(t, `
web:
  host: 0.0.0.0
  port: 9090
`)

	var settings webSettings
	require.NoError(t, cfg.Bind("web", &settings))
	assert.Equal(t, "0.0.0.0", settings.Host)
	assert.Equal(t, 9090, settings.Port)

	assert.Error(t, cfg.Bind("missing", &settings))
}

func TestLoad_Generic(t *testing.T) {
	cfg := buildConfig(t, `
web:
  host: example.com
  port: 443
`)

	settings, err := Load[webSettings](cfg, "web")
	require.NoError(t, err)
	assert.Equal(t, "example.com", settings.Host)
	assert.Equal(t, 443, settings.Port)
}

func TestYamlFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\n"), 0o644))

	cfg, err := NewConfigurationBuilder().AddYamlFile(path).Build()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Get("name"))

	// 必需文件缺失报错
	_, err = NewConfigurationBuilder().AddYamlFile(filepath.Join(dir, "absent.yaml")).Build()
	assert.Error(t, err)

	// 可选文件缺失跳过
	cfg, err = NewConfigurationBuilder().
		AddOptionalYamlFile(filepath.Join(dir, "absent.yaml")).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Get("name"))
}

func TestEnvSource(t *testing.T) {
	t.Setenv("MYAPP_WEB_PORT", "8081")
	t.Setenv("MYAPP_NAME", "from-env")

	cfg, err := NewConfigurationBuilder().
		AddEnvironmentVariables("MYAPP_").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Get("web:port"))
	assert.Equal(t, "from-env", cfg.Get("name"))
}

func TestSourcePrecedence(t *testing.T) {
	t.Setenv("MYAPP_WEB_PORT", "9000")

	cfg, err := NewConfigurationBuilder().
		AddYaml("web:\n  port: 8080\n  host: localhost\n").
		AddEnvironmentVariables("MYAPP_").
		Build()
	require.NoError(t, err)

	// 后加入的环境变量源覆盖文件值，未覆盖的键保留
	assert.Equal(t, "9000", cfg.Get("web:port"))
	assert.Equal(t, "localhost", cfg.Get("web:host"))
}

func TestInMemorySource_Merge(t *testing.T) {
	cfg, err := NewConfigurationBuilder().
		AddInMemory(map[string]any{
			"server": map[string]any{"host": "a", "port": 1},
		}).
		AddInMemory(map[string]any{
			"server": map[string]any{"host": "b"},
		}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "b", cfg.Get("server:host"))
	assert.Equal(t, "1", cfg.Get("server:port"))
}

func BenchmarkConfigGet(b *testing.B) {
	cfg, _ := NewConfigurationBuilder().
		AddInMemory(map[string]any{
			"server": map[string]any{
				"host": "localhost",
				"port": 8080,
			},
		}).
		Build()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfg.Get("server:host")
	}
}

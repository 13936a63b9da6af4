package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gocrud/inject/core"
	"github.com/gocrud/inject/di"
)

type testUser struct {
	ID   uint   `gorm:"primarykey"`
	Name string `gorm:"size:64"`
}

func TestFactory_RegisterAndGet(t *testing.T) {
	factory := NewFactory()

	// 共享缓存内存库，连接池各连接看到同一数据
	err := factory.Register(Options{
		Name:        "default",
		Dialector:   sqlite.Open("file:factorytest?mode=memory&cache=shared"),
		GormConfig:  &gorm.Config{},
		AutoMigrate: []any{&testUser{}},
	})
	require.NoError(t, err)

	db, err := factory.Get("default")
	require.NoError(t, err)

	// AutoMigrate 已建表，可直接读写
	require.NoError(t, db.Create(&testUser{Name: "alice"}).Error)

	var count int64
	require.NoError(t, db.Model(&testUser{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = factory.Get("missing")
	assert.Error(t, err)

	require.NoError(t, factory.Close())
}

func TestFactory_DuplicateName(t *testing.T) {
	factory := NewFactory()

	opts := Options{Name: "dup", Dialector: sqlite.Open(":memory:"), GormConfig: &gorm.Config{}}
	require.NoError(t, factory.Register(opts))
	assert.Error(t, factory.Register(opts))
}

func TestBuilder_Validation(t *testing.T) {
	builder := NewBuilder()
	builder.Add("", sqlite.Open(":memory:"), nil)

	_, err := builder.Build(nil)
	assert.Error(t, err)
}

func TestNew_RegistersDefaultInstance(t *testing.T) {
	rt := core.NewRuntime()

	err := rt.Apply(New(
		WithDatabase(DefaultName, sqlite.Open("file:optiontest?mode=memory&cache=shared"), func(o *Options) {
			o.AutoMigrate = []any{&testUser{}}
		}),
	))
	require.NoError(t, err)

	db, err := di.Resolve[*gorm.DB](rt.Container)
	require.NoError(t, err)
	require.NoError(t, db.Create(&testUser{Name: "bob"}).Error)

	factory, err := di.Resolve[*Factory](rt.Container)
	require.NoError(t, err)
	named, err := factory.Get(DefaultName)
	require.NoError(t, err)
	assert.Same(t, db, named)
}

func TestNew_NoConfigsIsNoop(t *testing.T) {
	rt := core.NewRuntime()
	require.NoError(t, rt.Apply(New()))

	_, err := di.Resolve[*Factory](rt.Container)
	assert.Error(t, err)
}

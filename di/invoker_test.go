package di_test

import (
	"testing"

	"github.com/gocrud/inject/di"
)

func TestInvoke(t *testing.T) {
	c := di.NewContainer()

	// 工厂产出的 A 与预注册的 B 实例
	di.Factory[*Database](c, func() *Database { return &Database{DSN: "fresh"} })
	registered := &Cache{Addr: "exact"}
	di.Instance[*Cache](c, registered)

	result, err := c.Invoke(func(db *Database, cache *Cache) []any {
		return []any{db, cache}
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	pair := result.([]any)
	if pair[0].(*Database).DSN != "fresh" {
		t.Error("expected a freshly constructed Database")
	}
	if pair[1].(*Cache) != registered {
		t.Error("expected the exact registered Cache instance")
	}
}

func TestInvoke_NoParams(t *testing.T) {
	c := di.NewContainer()

	result, err := c.Invoke(func() string { return "done" })
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result != "done" {
		t.Errorf("unexpected result: %v", result)
	}
}

func TestInvoke_ErrorResult(t *testing.T) {
	c := di.NewContainer()

	_, err := c.Invoke(func() (string, error) {
		return "", errTest
	})
	if err != errTest {
		t.Fatalf("trailing error result should propagate, got %v", err)
	}
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "test error" }

func TestInvoke_InvalidArgument(t *testing.T) {
	c := di.NewContainer()

	if _, err := c.Invoke(nil); !di.IsInvalidArgument(err) {
		t.Errorf("nil callable should fail with InvalidArgument, got %v", err)
	}
	if _, err := c.Invoke(42); !di.IsInvalidArgument(err) {
		t.Errorf("non-function callable should fail with InvalidArgument, got %v", err)
	}
	if _, err := c.Invoke(func(xs ...int) {}); !di.IsInvalidArgument(err) {
		t.Errorf("variadic callable should fail with InvalidArgument, got %v", err)
	}
}

func TestInvoke_UnknownDependencyPropagates(t *testing.T) {
	c := di.NewContainer()

	called := false
	_, err := c.Invoke(func(db *Database) {
		called = true
	})
	if !di.IsUnknownDependency(err) {
		t.Fatalf("expected UnknownDependency out of Invoke, got %v", err)
	}
	if called {
		t.Error("callable must not run when resolution fails")
	}
}

func TestInvoke_OptionalParam(t *testing.T) {
	c := di.NewContainer()

	// Cache 未注册：可缺省参数得到显式缺省标记而不是错误
	result, err := c.Invoke(func(cache di.Optional[*Cache]) bool {
		return cache.Exists
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result.(bool) {
		t.Error("absent optional should have Exists=false")
	}

	di.Instance[*Cache](c, &Cache{Addr: "here"})
	result, err = c.Invoke(func(cache di.Optional[*Cache]) string {
		if !cache.Exists {
			return ""
		}
		return cache.Value.Addr
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result != "here" {
		t.Errorf("present optional should carry the value, got %v", result)
	}
}

type Greeter struct {
	Prefix string
}

func (g *Greeter) Greet(cache *Cache) string {
	return g.Prefix + cache.Addr
}

func TestInvokeMethod(t *testing.T) {
	c := di.NewContainer()
	di.Instance[*Cache](c, &Cache{Addr: "redis"})

	result, err := c.InvokeMethod(&Greeter{Prefix: "at "}, "Greet")
	if err != nil {
		t.Fatalf("InvokeMethod failed: %v", err)
	}
	if result != "at redis" {
		t.Errorf("unexpected result: %v", result)
	}

	if _, err := c.InvokeMethod(&Greeter{}, "Missing"); !di.IsInvalidArgument(err) {
		t.Errorf("missing method should fail with InvalidArgument, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	c := di.NewContainer()

	di.Factory[*Database](c, func() *Database { return &Database{DSN: "x"} })
	di.Factory[*Repository](c, func(db *Database) *Repository { return &Repository{DB: db} })

	svc, err := di.New[*Service](c)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if svc.Repo == nil || svc.Repo.DB.DSN != "x" {
		t.Error("required field injection failed")
	}
	// Cache 带 di:"?"，未注册时保持零值
	if svc.Cache != nil {
		t.Error("optional field should stay zero when unregistered")
	}

	// 每次 Create 都是新实例
	other, _ := di.New[*Service](c)
	if other == svc {
		t.Error("Create must not cache instances")
	}
}

func TestCreate_ValueType(t *testing.T) {
	c := di.NewContainer()
	di.Factory[*Database](c, func() *Database { return &Database{DSN: "v"} })

	created, err := c.Create(di.TypeOf[Repository]())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	repo, ok := created.(Repository)
	if !ok {
		t.Fatalf("expected a Repository value, got %T", created)
	}
	if repo.DB == nil {
		t.Error("field injection failed for value type")
	}
}

func TestCreate_RequiredFieldMissing(t *testing.T) {
	c := di.NewContainer()

	// Repository 的 DB 字段是必需的
	_, err := di.New[*Repository](c)
	if !di.IsUnknownDependency(err) {
		t.Fatalf("expected UnknownDependency, got %v", err)
	}
}

func TestCreate_InvalidArgument(t *testing.T) {
	c := di.NewContainer()

	if _, err := c.Create(di.TypeOf[int]()); !di.IsInvalidArgument(err) {
		t.Errorf("non-struct type should fail with InvalidArgument, got %v", err)
	}
}

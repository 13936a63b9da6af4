package tests

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gocrud/inject/config"
	"github.com/gocrud/inject/core"
	"github.com/gocrud/inject/database"
	"github.com/gocrud/inject/di"
	"github.com/gocrud/inject/web"
)

// visit 集成测试用的业务模型
type visit struct {
	ID   uint   `gorm:"primarykey"`
	Path string `gorm:"size:128"`
}

// visitService 模拟业务服务（字段注入）
type visitService struct {
	DB     *gorm.DB             `di:""`
	Config config.Configuration `di:""`
}

func (s *visitService) AppName() string {
	return s.Config.Get("app:name")
}

func (s *visitService) Record(path string) error {
	return s.DB.Create(&visit{Path: path}).Error
}

// visitController 模拟控制器（构造函数注入）
type visitController struct {
	service *visitService
}

func newVisitController(service *visitService) *visitController {
	return &visitController{service: service}
}

func (c *visitController) MountRoutes(r gin.IRouter) {
	r.GET("/ping", func(ctx *gin.Context) {
		if err := c.service.Record(ctx.FullPath()); err != nil {
			ctx.String(http.StatusInternalServerError, err.Error())
			return
		}
		ctx.String(http.StatusOK, "pong: "+c.service.AppName())
	})
}

func TestIntegration(t *testing.T) {
	t.Setenv("TESTAPP_APP_NAME", "IntegrationTest")

	rt := core.NewRuntime()

	err := rt.Apply(
		// 1. Config（环境变量源）
		func(rt *core.Runtime) error {
			cfg, err := config.NewConfigurationBuilder().
				AddEnvironmentVariables("TESTAPP_").
				Build()
			if err != nil {
				return err
			}
			return config.Use(cfg)(rt)
		},

		// 2. Database（内存 sqlite）
		// 共享缓存内存库，连接池各连接看到同一数据
		database.New(database.WithDatabase(database.DefaultName,
			sqlite.Open("file:integration?mode=memory&cache=shared"),
			func(o *database.Options) {
				o.AutoMigrate = []any{&visit{}}
			})),

		// 3. Web（随机端口）
		web.New(web.WithControllers(newVisitController), web.WithPort(0)),
	)
	if err != nil {
		t.Fatalf("Apply options failed: %v", err)
	}

	// 注册业务服务（惰性构造，字段注入）
	if err := di.Class[*visitService](rt.Container); err != nil {
		t.Fatalf("register visitService failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rt.Lifecycle.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer rt.Lifecycle.Stop(ctx, rt.ErrorHandler)

	// 等待 Host 就绪并拿到实际监听地址
	var host *web.Host
	for i := 0; i < 20; i++ {
		host = core.GetFeature[*web.Host](rt)
		if host != nil && host.Address() != "" && host.Address() != ":0" {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if host == nil || host.Address() == "" {
		t.Fatal("web host address is empty after waiting")
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", host.Address()))
	if err != nil {
		t.Fatalf("HTTP Get failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Read body failed: %v", err)
	}
	if string(body) != "pong: IntegrationTest" {
		t.Errorf("unexpected body: %q", string(body))
	}

	// 请求确实写入了数据库
	db, err := di.Resolve[*gorm.DB](rt.Container)
	if err != nil {
		t.Fatalf("resolve db failed: %v", err)
	}
	var count int64
	if err := db.Model(&visit{}).Count(&count).Error; err != nil {
		t.Fatalf("count visits failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 visit, got %d", count)
	}
}

// testWorker 托管服务生命周期测试
type testWorker struct {
	Started chan struct{}
	Stopped chan struct{}
	StopCh  chan struct{}
}

func (w *testWorker) Start(ctx context.Context) error {
	close(w.Started)
	<-w.StopCh
	return nil
}

func (w *testWorker) Stop(ctx context.Context) error {
	close(w.StopCh)
	time.Sleep(10 * time.Millisecond)
	close(w.Stopped)
	return nil
}

func TestHostedService(t *testing.T) {
	rt := core.NewRuntime()

	worker := &testWorker{
		Started: make(chan struct{}),
		Stopped: make(chan struct{}),
		StopCh:  make(chan struct{}),
	}

	if err := rt.Apply(core.WithHostedService(worker)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	ctx := context.Background()
	if err := rt.Lifecycle.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	select {
	case <-worker.Started:
	case <-time.After(100 * time.Millisecond):
		t.Error("worker should be started")
	}

	if err := rt.Lifecycle.Stop(ctx, rt.ErrorHandler); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	select {
	case <-worker.Stopped:
	case <-time.After(100 * time.Millisecond):
		t.Error("worker should be stopped")
	}
}

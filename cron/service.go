package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gocrud/inject/di"
	"github.com/gocrud/inject/logging"
)

// jobDefinition 任务定义
type jobDefinition struct {
	spec    string
	name    string
	handler any
}

// Service Cron 定时任务托管服务
// 实现 HostedService 接口，任务参数通过 DI 容器注入
type Service struct {
	cron      *cron.Cron
	logger    logging.Logger
	mu        sync.RWMutex
	jobs      map[string]cron.EntryID
	jobDefs   []jobDefinition
	container *di.Container
}

// options Cron 服务配置选项
type options struct {
	// Location 时区设置，默认 UTC
	Location string
	// EnableSeconds 是否启用秒级精度（默认分钟级）
	EnableSeconds bool
	// Logger 自定义日志记录器
	Logger logging.Logger
	// EnableCronLogger 是否启用 cron 库的内部调度日志（默认 false）
	EnableCronLogger bool
}

// newService 创建 Cron 托管服务
func newService(logger logging.Logger, opts ...func(*options)) *Service {
	opt := &options{
		Location:         "UTC",
		EnableSeconds:    false,
		Logger:           logger,
		EnableCronLogger: false,
	}

	for _, o := range opts {
		o(opt)
	}

	if opt.Logger == nil {
		opt.Logger = logging.NewLogger().WithCategory("cron")
	}

	cronOpts := []cron.Option{}
	if opt.Location != "" {
		if loc, err := time.LoadLocation(opt.Location); err == nil {
			cronOpts = append(cronOpts, cron.WithLocation(loc))
		} else {
			opt.Logger.Warn("invalid cron location, falling back to local time",
				logging.Field{Key: "location", Value: opt.Location})
		}
	}
	if opt.EnableCronLogger {
		cronOpts = append(cronOpts, cron.WithLogger(newCronLogger(opt.Logger)))
	}
	cronOpts = append(cronOpts, cron.WithChain(
		cron.Recover(newCronLogger(opt.Logger)),
	))
	if opt.EnableSeconds {
		cronOpts = append(cronOpts, cron.WithSeconds())
	}

	return &Service{
		cron:   cron.New(cronOpts...),
		logger: opt.Logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

// addJob 添加定时任务
// spec: cron 表达式，如 "0 */5 * * * *" (每5分钟) 或 "0 0 2 * * *" (每天凌晨2点)
func (s *Service) addJob(spec, name string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, err := s.cron.AddFunc(spec, func() {
		s.logger.Debug(fmt.Sprintf("cron job %q started", name))
		defer s.logger.Debug(fmt.Sprintf("cron job %q completed", name))
		job()
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job %q: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info(fmt.Sprintf("cron job %q registered", name),
		logging.Field{Key: "spec", Value: spec})
	return nil
}

// RemoveJob 移除定时任务
func (s *Service) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
		s.logger.Info(fmt.Sprintf("cron job %q removed", name))
	}
}

// Inject 注入 DI 容器与日志记录器，必须在 Start 前调用
func (s *Service) Inject(container *di.Container, logger logging.Logger) {
	s.container = container
	if logger != nil {
		s.logger = logger
	}
}

// Start 实现 HostedService.Start
// 注册所有待处理任务后启动调度器
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("cron service starting",
		logging.Field{Key: "jobs", Value: len(s.jobDefs)})

	for _, job := range s.jobDefs {
		var handlerFunc func()

		switch h := job.handler.(type) {
		case func():
			handlerFunc = h
		default:
			// 带依赖注入的函数，参数在每次执行时从容器解析
			if s.container == nil {
				return fmt.Errorf("cron: DI container not injected but job %q requires it", job.name)
			}
			handlerFunc = s.wrapHandler(job.name, h)
		}

		if err := s.addJob(job.spec, job.name, handlerFunc); err != nil {
			return err
		}
	}

	s.jobDefs = nil

	s.cron.Start()
	return nil
}

// Stop 实现 HostedService.Stop
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("cron service stopping")

	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// wrapHandler 把任意函数包装为无参任务，依赖从容器解析
func (s *Service) wrapHandler(name string, handler any) func() {
	return func() {
		if _, err := s.container.Invoke(handler); err != nil {
			s.logger.Error(fmt.Sprintf("cron job %q failed", name),
				logging.Field{Key: "error", Value: err.Error()})
		}
	}
}

// cronLogger 适配器：将框架日志接口适配到 cron 的日志接口
type cronLogger struct {
	logger logging.Logger
}

func newCronLogger(logger logging.Logger) cron.Logger {
	return &cronLogger{logger: logger}
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, convertToFields(keysAndValues)...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := convertToFields(keysAndValues)
	fields = append(fields, logging.Field{Key: "error", Value: err.Error()})
	l.logger.Error(msg, fields...)
}

func convertToFields(keysAndValues []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			key := fmt.Sprintf("%v", keysAndValues[i])
			fields = append(fields, logging.Field{Key: key, Value: keysAndValues[i+1]})
		}
	}
	return fields
}

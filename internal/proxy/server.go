package proxy

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"xunity-llm-translate-server/internal/config"
	"xunity-llm-translate-server/internal/glossary"
	"xunity-llm-translate-server/internal/httpclient"
	"xunity-llm-translate-server/internal/i18n"
	"xunity-llm-translate-server/internal/keyring"
	"xunity-llm-translate-server/internal/logger"
	"xunity-llm-translate-server/internal/memory"
	"xunity-llm-translate-server/internal/textrules"
	"xunity-llm-translate-server/internal/upstream"
	"xunity-llm-translate-server/internal/web"
)

const transferTimeout = 45 * time.Second

// Server 翻译代理服务：入站 HTTP、工作池、生命周期。
type Server struct {
	store      *config.Store
	contexts   *memory.Store
	glossary   *glossary.Manager
	rules      *textrules.Pipeline
	translator *Translator
	logger     *logger.Logger
	sink       logger.EventSink
	router     *gin.Engine
	configPath string

	// start/stop 由外部串行调用，这把锁只是兜底
	mu      sync.Mutex
	running bool
	httpSrv *http.Server
	done    chan struct{}

	rootCtx context.Context // 停止即取消：在途尝试与重试等待的 abort 信号
	cancel  context.CancelFunc
	sem     chan struct{} // 有界工作池
}

func NewServer(cfg config.Config, configPath string, log *logger.Logger, sink logger.EventSink) (*Server, error) {
	ring := keyring.New()
	store := config.NewStore(cfg, ring)

	glossaryManager := glossary.NewManager()
	if cfg.EnableGlossary && cfg.GlossaryPath != "" {
		if err := glossaryManager.SetFilePath(cfg.GlossaryPath); err != nil {
			// 术语表损坏不阻止启动，从空表开始
			log.Error("failed to load glossary", err)
		}
	}

	rules := textrules.Empty()
	if cfg.RulesPath != "" {
		loaded, err := textrules.Load(cfg.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load text rules: %v", err)
		}
		rules = loaded
	}
	rules.SetFailureHandler(func(ruleName string, err error) {
		log.Error("text rule failed", err, map[string]interface{}{"rule": ruleName})
	})

	httpClient, err := httpclient.New(cfg, transferTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream client: %v", err)
	}

	contexts := memory.NewStore()

	s := &Server{
		store:      store,
		contexts:   contexts,
		glossary:   glossaryManager,
		rules:      rules,
		logger:     log,
		sink:       sink,
		configPath: configPath,
	}
	s.translator = NewTranslator(store, contexts, glossaryManager, rules, upstream.NewClient(httpClient), sink)
	s.rootCtx, s.cancel = context.WithCancel(context.Background())
	s.resizePool(cfg.MaxThreads)
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()
	s.router.Use(gin.Recovery())

	s.router.GET("/", s.handleTranslate)

	adminServer := web.NewAdminServer(s.logger, s.ReloadConfig, s.ClearContexts)
	adminServer.RegisterRoutes(s.router)
}

func (s *Server) resizePool(maxThreads int) {
	if maxThreads < 1 {
		maxThreads = 1
	}
	s.sem = make(chan struct{}, maxThreads)
}

// Start 绑定监听并启动服务，重复调用无害。
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	cfg := s.store.Current()
	threads := cfg.MaxThreads
	if threads < 1 {
		threads = 1
	}
	// 工作池大小在一次运行期间固定，重载的 max_threads 下次启动生效
	s.resizePool(threads)
	if s.rootCtx.Err() != nil {
		s.rootCtx, s.cancel = context.WithCancel(context.Background())
	}

	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler: s.router,
	}
	s.done = make(chan struct{})
	s.running = true

	go func(srv *http.Server, done chan struct{}) {
		defer close(done)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("listener failed", err)
		}
	}(s.httpSrv, s.done)

	s.sink.LogMessage(i18n.Tf(i18n.Normalize(cfg.Language), "server_start", cfg.Port, threads))
	return nil
}

// Stop 置 abort、关停监听并等待退出。
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}

	// 在途尝试与重试等待立即观察到取消
	s.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		s.httpSrv.Close()
	}
	<-s.done

	s.running = false
	s.httpSrv = nil

	lang := i18n.Normalize(s.store.Current().Language)
	s.sink.LogMessage(i18n.T(lang, "server_stop"))
	return nil
}

// ApplyConfig 整体换入新配置快照（热重载入口）。
func (s *Server) ApplyConfig(cfg config.Config) {
	s.store.Update(cfg)

	if cfg.EnableGlossary && cfg.GlossaryPath != "" {
		if err := s.glossary.SetFilePath(cfg.GlossaryPath); err != nil {
			s.logger.Error("failed to load glossary", err)
		}
	}
}

// ReloadConfig 从磁盘重新读取配置并应用。
func (s *Server) ReloadConfig() error {
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}
	s.ApplyConfig(cfg)
	s.sink.LogMessage(i18n.T(i18n.Normalize(cfg.Language), "config_reloaded"))
	return nil
}

// ClearContexts 清空全部上下文记忆。
func (s *Server) ClearContexts() {
	s.contexts.Clear()
	lang := i18n.Normalize(s.store.Current().Language)
	s.sink.LogMessage(i18n.T(lang, "context_cleared"))
}

// Router 暴露路由器，测试用。
func (s *Server) Router() *gin.Engine {
	return s.router
}

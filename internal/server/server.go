package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/api"
	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/config"
	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/parser"
	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/web"
)

// RequestIDHeader 请求 ID 响应头
const RequestIDHeader = "X-Request-ID"

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	cfg    *config.AppConfig
	api    *api.Handler
	srv    *http.Server
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) (*Server, error) {
	loader := parser.NewLoader(parser.LoaderOptions{
		ForecastPath:       cfg.ForecastPath(),
		DecompositionPath:  cfg.DecompositionPath(),
		ForecastSheet:      cfg.Data.ForecastSheet,
		DecompositionSheet: cfg.Data.DecompositionSheet,
	})
	return NewServerWithSource(cfg, loader)
}

// NewServerWithSource 使用指定数据源创建服务器（用于测试）
func NewServerWithSource(cfg *config.AppConfig, source api.DataSource) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: gin.New(),
		cfg:    cfg,
		api:    api.NewHandler(source),
	}
	s.router.Use(gin.Logger(), gin.Recovery())
	s.router.SetHTMLTemplate(tmpl)

	s.setupRoutes()

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	s.router.Use(requestID())
	s.router.Use(secure.New(secureConfig(s.cfg)))

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// 静态资源：优先使用磁盘目录，目录不存在时使用内嵌资源
	if dir := s.cfg.Web.StaticDir; isDir(dir) {
		s.router.Static("/static", dir)
	} else {
		log.Printf("静态目录不存在，使用内嵌资源: %s", dir)
		s.router.StaticFS("/static", http.FS(web.StaticFS()))
	}

	s.api.RegisterPages(s.router)

	group := s.router.Group("/api")
	{
		s.api.RegisterRoutes(group)
	}
}

// secureConfig 安全响应头；仅在应用自身启用 SSL 时加入 HSTS 与跳转
func secureConfig(cfg *config.AppConfig) secure.Config {
	sc := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      cfg.Server.DevMode,
	}
	if cfg.Web.SSL {
		sc.SSLRedirect = true
		sc.STSSeconds = 31536000
		sc.STSIncludeSubdomains = true
	}
	return sc
}

// requestID 透传或生成请求 ID
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// Handler 返回 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 在配置端口上启动服务器，Shutdown 后返回 nil
func (s *Server) Run() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭；先于 Run 调用时，之后的 Run 立即返回
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

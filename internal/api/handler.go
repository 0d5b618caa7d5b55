package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/model"
)

// DataSource 每次调用都重新读取数据文件
type DataSource interface {
	Load() *model.Dataset
}

// Handler API 处理器
type Handler struct {
	source DataSource
	now    func() time.Time
}

// NewHandler 创建 API 处理器
func NewHandler(source DataSource) *Handler {
	return &Handler{
		source: source,
		now:    time.Now,
	}
}

// RegisterPages 注册页面与探活路由
func (h *Handler) RegisterPages(router gin.IRoutes) {
	// 首页
	router.GET("/", h.Index)
	// 探活
	router.GET("/healthz", h.Health)
}

// RegisterRoutes 注册 /api 下的数据接口
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 图表数据
	router.GET("/gdp_forecast", h.GetGDPForecast)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/model"
)

// GetGDPForecast 提供图表数据
// GET /api/gdp_forecast
//
// 数据缺失或格式错误时返回空的 line / bar，状态码始终为 200。
func (h *Handler) GetGDPForecast(c *gin.Context) {
	ds := h.source.Load()
	c.JSON(http.StatusOK, model.NewGDPForecastResponse(ds))
}

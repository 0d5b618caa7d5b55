package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LastUpdateLayout 首页“最后更新”时间格式
const LastUpdateLayout = "2006-01-02 15:04:05"

// IndexPageData 首页模板数据
type IndexPageData struct {
	LatestForecast float64
	LastUpdate     string
}

// Index 首页
// GET /
func (h *Handler) Index(c *gin.Context) {
	ds := h.source.Load()

	c.HTML(http.StatusOK, "index.html", IndexPageData{
		LatestForecast: ds.LatestForecast(),
		LastUpdate:     h.now().Format(LastUpdateLayout),
	})
}

// Health 探活
// GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

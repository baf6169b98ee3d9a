package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"xunity-llm-translate-server/internal/logger"
)

// AdminServer 管理接口：查看翻译记录、重载配置、清空上下文。
type AdminServer struct {
	logger        *logger.Logger
	reload        func() error
	clearContexts func()
}

func NewAdminServer(log *logger.Logger, reload func() error, clearContexts func()) *AdminServer {
	return &AdminServer{
		logger:        log,
		reload:        reload,
		clearContexts: clearContexts,
	}
}

func (a *AdminServer) RegisterRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	{
		admin.GET("/logs", a.handleGetLogs)
		admin.POST("/reload", a.handleReload)
		admin.POST("/clear-context", a.handleClearContext)
	}
}

func (a *AdminServer) handleGetLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	failedOnly := c.Query("failed_only") == "true"

	logs, total, err := a.logger.GetLogs(limit, offset, failedOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"logs":  logs,
	})
}

func (a *AdminServer) handleReload(c *gin.Context) {
	if err := a.reload(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *AdminServer) handleClearContext(c *gin.Context) {
	a.clearContexts()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

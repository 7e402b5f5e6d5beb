package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/config"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/importer"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/logger"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	store  *store.Store
	cfg    *config.AppConfig
	runner *importer.Runner
}

// NewHandler 创建 V1 API 处理器
func NewHandler(st *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:  st,
		cfg:    cfg,
		runner: importer.NewRunner(st, logger.Get()),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 数据导入
	router.POST("/import/discover", h.Discover)
	router.POST("/import", h.Import)

	// 产品查询
	router.GET("/tours", h.ListTours)
	router.GET("/tours/:id", h.GetTour)
	router.PATCH("/tours/:id", h.UpdateTour)
	router.GET("/tours/:id/audit", h.GetTourAudit)

	// 供应商
	router.GET("/suppliers", h.ListSuppliers)
	router.GET("/suppliers/:id", h.GetSupplier)

	// 自定义字段
	router.GET("/custom-attributes", h.ListCustomAttributes)
	router.POST("/custom-attributes", h.CreateCustomAttribute)

	// 数据导出
	router.GET("/export/tours", h.ExportTours)
}

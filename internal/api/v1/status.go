package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool   `json:"initialized"`    // 是否已初始化（有数据）
	TotalTours     int    `json:"totalTours"`     // 产品总数
	TotalSuppliers int    `json:"totalSuppliers"` // 供应商总数
	LastImportTime string `json:"lastImportTime"` // 最后导入完成时间
	LastImportID   string `json:"lastImportId"`   // 最后导入批次
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	tourCount, err := h.store.CountTours()
	if err != nil {
		tourCount = 0
	}

	supplierCount, err := h.store.CountSuppliers()
	if err != nil {
		supplierCount = 0
	}

	resp := StatusResponse{
		Initialized:    tourCount > 0,
		TotalTours:     tourCount,
		TotalSuppliers: supplierCount,
	}

	if batch, err := h.store.GetLastImportBatch(); err == nil && batch != nil {
		resp.LastImportID = batch.ID
		if batch.CompletedAt != nil {
			resp.LastImportTime = batch.CompletedAt.Format(time.RFC3339)
		}
	}

	c.JSON(http.StatusOK, resp)
}

package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/importer"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/scoring"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/store"
)

var errTourNotFound = errors.New("tour not found")

type tourDetail struct {
	Tour         model.Tour                    `json:"tour"`
	Pricing      *model.Pricing                `json:"pricing"`
	Computed     *model.ComputedPricing        `json:"computed"`
	Logistics    *model.Logistics              `json:"logistics"`
	Assets       *model.Assets                 `json:"assets"`
	Distribution *model.Distribution           `json:"distribution"`
	Audit        *model.Audit                  `json:"audit"`
	Custom       []*model.CustomAttributeValue `json:"custom"`
}

type listToursResponse struct {
	Items    []*model.Tour `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// ListTours 查询产品列表
// GET /api/tours
func (h *Handler) ListTours(c *gin.Context) {
	opts := store.TourQueryOptions{}

	if v := strings.TrimSpace(c.Query("supplierId")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			opts.SupplierID = &id
		}
	}
	if v := strings.TrimSpace(c.Query("active")); v != "" {
		active := v == "true" || v == "1"
		opts.Active = &active
	}
	if v := strings.TrimSpace(c.Query("audited")); v != "" {
		audited := v == "true" || v == "1"
		opts.Audited = &audited
	}

	page := parseIntWithDefault(c.Query("page"), 1)
	pageSize := parseIntWithDefault(c.Query("pageSize"), 200)
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 200
	}
	if pageSize > 2000 {
		pageSize = 2000
	}

	opts.Limit = pageSize
	opts.Offset = (page - 1) * pageSize

	items, err := h.store.ListTours(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	total, err := h.store.CountTours()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listToursResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetTour 获取产品详情（含读取时计算的派生价格）
// GET /api/tours/:id
func (h *Handler) GetTour(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	detail, status, err := h.loadTourDetail(id)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateTour 更新产品主记录并重算审计结果
// PATCH /api/tours/:id
func (h *Handler) UpdateTour(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if existing, err := h.store.GetTourByID(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	} else if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tour not found"})
		return
	}

	var patch map[string]interface{}
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := pickTourUpdates(patch)
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in patch"})
		return
	}

	if err := h.store.UpdateTour(id, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := importer.RecomputeAudit(h.store, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	detail, status, err := h.loadTourDetail(id)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetTourAudit 获取产品审计结果
// GET /api/tours/:id/audit
func (h *Handler) GetTourAudit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	audit, err := h.store.GetAudit(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if audit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "audit not found"})
		return
	}

	c.JSON(http.StatusOK, audit)
}

func (h *Handler) loadTourDetail(id int64) (*tourDetail, int, error) {
	record, err := h.store.GetTourRecord(id)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if record == nil {
		return nil, http.StatusNotFound, errTourNotFound
	}

	computed, err := scoring.ComputePricing(record.Pricing)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	custom, err := h.store.GetCustomValues(id)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return &tourDetail{
		Tour:         record.Tour,
		Pricing:      record.Pricing,
		Computed:     computed,
		Logistics:    record.Logistics,
		Assets:       record.Assets,
		Distribution: record.Distribution,
		Audit:        record.Audit,
		Custom:       custom,
	}, http.StatusOK, nil
}

// pickTourUpdates 从 patch 取可更新的主记录列（JSON 键为 camelCase）
func pickTourUpdates(patch map[string]interface{}) map[string]interface{} {
	updates := map[string]interface{}{}

	if v, ok := patch["name"].(string); ok && strings.TrimSpace(v) != "" {
		updates["name"] = strings.TrimSpace(v)
	}
	if v, ok := patch["location"].(string); ok {
		updates["location"] = strings.TrimSpace(v)
	}
	if v, ok := patch["audited"].(bool); ok {
		updates["audited"] = v
	}
	if v, ok := patch["active"].(bool); ok {
		updates["active"] = v
	}
	if v, ok := patch["supplierId"].(float64); ok {
		updates["supplier_id"] = int64(v)
	}

	return updates
}

package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/parser"
)

type createCustomAttributeRequest struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ListCustomAttributes 查询自定义字段定义
// GET /api/custom-attributes
func (h *Handler) ListCustomAttributes(c *gin.Context) {
	defs, err := h.store.ListCustomDefs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": defs, "total": len(defs)})
}

// CreateCustomAttribute 新增自定义字段定义
// POST /api/custom-attributes
func (h *Handler) CreateCustomAttribute(c *gin.Context) {
	var req createCustomAttributeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	key := strings.TrimSpace(req.Key)
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}
	// 列映射里以 custom_ 前缀引用，这里只存裸 key
	key = strings.TrimPrefix(key, parser.CustomFieldPrefix)

	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = key
	}

	if existing, err := h.store.GetCustomDefByKey(key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	} else if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "key already exists"})
		return
	}

	id, err := h.store.CreateCustomDef(key, label)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "key": key, "label": label})
}

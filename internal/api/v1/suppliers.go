package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListSuppliers 查询供应商列表
// GET /api/suppliers
func (h *Handler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.store.ListSuppliers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": suppliers, "total": len(suppliers)})
}

// GetSupplier 获取供应商详情
// GET /api/suppliers/:id
func (h *Handler) GetSupplier(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	supplier, err := h.store.GetSupplierByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if supplier == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "supplier not found"})
		return
	}

	c.JSON(http.StatusOK, supplier)
}

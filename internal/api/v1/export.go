package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/exporter"
)

// ExportTours 导出产品目录为 xlsx
// GET /api/export/tours
func (h *Handler) ExportTours(c *gin.Context) {
	f, err := exporter.NewExporter(h.store).Export()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("tours_%s.xlsx", time.Now().Format("20060102_150405"))

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(c.Writer); err != nil {
		// 响应头已发出，只能记录
		_ = c.Error(err)
	}
}

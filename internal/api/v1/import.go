package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/importer"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/parser"
)

// Discover 读取上传表格，返回表头与预览行
// POST /api/import/discover
func (h *Handler) Discover(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing upload file"})
		return
	}
	defer file.Close()

	headerRow := parseIntWithDefault(c.PostForm("headerRow"), h.cfg.Import.HeaderRow)
	previewRows := parseIntWithDefault(c.PostForm("previewRows"), h.cfg.Import.PreviewRows)

	rows, err := parser.ReadTable(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to read %s: %v", header.Filename, err)})
		return
	}

	result, err := parser.Discover(rows, headerRow, previewRows)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Import 导入表格数据 (NDJSON 流式响应)
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing upload file"})
		return
	}
	defer file.Close()

	mappingRaw := c.PostForm("mapping")
	if mappingRaw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing column mapping"})
		return
	}

	var mapping parser.ColumnMapping
	if err := json.Unmarshal([]byte(mappingRaw), &mapping); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid column mapping"})
		return
	}

	headerRow := parseIntWithDefault(c.PostForm("headerRow"), h.cfg.Import.HeaderRow)

	// NDJSON 响应头
	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	progressChan := h.runner.Run(importer.Options{
		Context:   c.Request.Context(),
		Input:     file,
		Filename:  header.Filename,
		Mapping:   mapping,
		HeaderRow: headerRow,
	})

	// 每个事件一行 JSON
	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}

		fmt.Fprintf(c.Writer, "%s\n", eventData)
		flusher.Flush()
	}
}

func parseIntWithDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

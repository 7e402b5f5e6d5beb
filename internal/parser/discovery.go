package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var xlsxMagic = []byte{0x50, 0x4B, 0x03, 0x04} // zip 头，xlsx 是 zip 容器

// ReadTable 把字节流解码为原始表格，自动识别 CSV 或 xlsx 工作簿
// 解码失败属于批次级错误，由调用方整体上报
func ReadTable(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input stream: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input stream")
	}

	if bytes.HasPrefix(data, xlsxMagic) {
		return readWorkbook(data)
	}
	return readCSV(data)
}

// readWorkbook 读取 xlsx 第一个工作表
func readWorkbook(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// readCSV 读取 CSV，容忍列数不一致并自动嗅探分隔符
func readCSV(data []byte) ([][]string, error) {
	// 去掉 UTF-8 BOM
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.Comma = sniffDelimiter(data)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to decode csv: %w", err)
	}
	return rows, nil
}

// sniffDelimiter 嗅探分隔符：欧洲导出常用分号
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// DiscoverResult 表头发现结果：表头行 + 前几行原始预览，
// 供调用方据此搭建列映射
type DiscoverResult struct {
	Headers []string   `json:"headers"`
	Preview [][]string `json:"preview"`
}

// Discover 返回指定下标的表头行和其后的原始预览行
func Discover(rows [][]string, headerRow, previewRows int) (*DiscoverResult, error) {
	if headerRow < 0 || headerRow >= len(rows) {
		return nil, fmt.Errorf("header row %d out of range (%d rows)", headerRow, len(rows))
	}

	headers := make([]string, len(rows[headerRow]))
	for i, h := range rows[headerRow] {
		headers[i] = strings.TrimSpace(h)
	}

	preview := make([][]string, 0, previewRows)
	for _, row := range rows[headerRow+1:] {
		if len(preview) >= previewRows {
			break
		}
		if IsBlankRow(row) {
			continue
		}
		preview = append(preview, row)
	}

	return &DiscoverResult{Headers: headers, Preview: preview}, nil
}

// DataRows 返回表头之后的数据行（保留空行以维持行号，空行由批处理器跳过）
func DataRows(rows [][]string, headerRow int) [][]string {
	if headerRow < 0 || headerRow+1 >= len(rows) {
		return nil
	}
	return rows[headerRow+1:]
}

package parser

import (
	"strconv"
	"strings"
	"time"
)

// 单元格解析器：全部为全函数，返回 nil 表示缺失或不可解析，永不报错，
// 保证脏单元格不会中断整个批次。

// ParseCurrency 解析金额，容忍混用的小数分隔符
// 支持格式: "65.00" / "65,00" / "1.234,56" / "1,234.56" / "USD 65"
func ParseCurrency(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" {
		return nil
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		// 逗号在点之后：最后一个逗号是小数分隔符，其余都是千分位
		intPart := strings.NewReplacer(",", "", ".", "").Replace(s[:lastComma])
		fracPart := strings.NewReplacer(",", "", ".", "").Replace(s[lastComma+1:])
		s = intPart + "." + fracPart
	case lastComma >= 0 && lastDot >= 0:
		// 点是小数分隔符，逗号是千分位
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		// 只有逗号：按小数分隔符处理
		intPart := strings.ReplaceAll(s[:lastComma], ",", "")
		s = intPart + "." + s[lastComma+1:]
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseDecimalFactor 解析倍率字段，清理规则与金额一致
func ParseDecimalFactor(raw string) *float64 {
	return ParseCurrency(raw)
}

// ParseInt 解析整数，剔除所有非数字字符
// "2 pax" -> 2, "" -> nil, "N/A" -> nil
func ParseInt(raw string) *int64 {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return nil
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// ParseBool 解析自由文本布尔值
// 空 -> nil；TRUE/1/YES（不区分大小写）-> true；其余 -> false
func ParseBool(raw string) *bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v := false
	switch strings.ToUpper(s) {
	case "TRUE", "1", "YES":
		v = true
	}
	return &v
}

// 日期解析按常见导出格式逐个尝试
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"01/02/2006",
	"January 2, 2006",
	"2 Jan 2006",
	time.RFC3339,
}

// ParseDate 尽力解析日期，失败返回 nil
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

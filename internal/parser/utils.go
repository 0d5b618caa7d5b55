package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// 日期标签格式；带时刻的单元格使用 DateTimeLayout
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// 格式码中的字面量、[...] 区段与转义字符不参与日期判断
	numFmtLiteralRe = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)
)

// NormalizeColumnName 规范化列名，去除空格和特殊字符
func NormalizeColumnName(name string) string {
	// 去除首尾空格（含全角空格）
	name = strings.TrimSpace(name)
	name = strings.Trim(name, "\u3000\ufeff")
	// 去除换行符和制表符
	name = strings.ReplaceAll(name, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\t", "")
	// 去除中间空白
	return whitespaceRe.ReplaceAllString(name, "")
}

// ParseNumber 解析单元格数值；空值、非数值、NaN、Inf 返回 nil
func ParseNumber(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	// 移除千分位分隔符
	text = strings.ReplaceAll(text, ",", "")
	text = strings.ReplaceAll(text, "，", "")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// cellAt 越界或缺失的单元格视为空
func cellAt(rows [][]string, row, col int) string {
	if row < 0 || row >= len(rows) || col < 0 || col >= len(rows[row]) {
		return ""
	}
	return rows[row][col]
}

// isDateNumFmt 判断单元格样式是否为日期格式（内置日期格式或含 y/d 的自定义格式）
func isDateNumFmt(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		code := strings.ToLower(numFmtLiteralRe.ReplaceAllString(*style.CustomNumFmt, ""))
		return strings.ContainsAny(code, "yd")
	}
	switch id := style.NumFmt; {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		// 东亚语言的内置日期格式
		return true
	}
	return false
}

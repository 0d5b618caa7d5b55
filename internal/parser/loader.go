package parser

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/model"
)

// LoaderOptions 数据读取选项
type LoaderOptions struct {
	ForecastPath       string
	DecompositionPath  string
	ForecastSheet      string // 为空时读取第一个工作表
	DecompositionSheet string // 为空时读取第一个工作表
	Logger             *log.Logger
}

// Loader 读取并清洗预测表与来源分解表。
// 每次 Load 都重新读取磁盘文件，Loader 本身不保存数据。
type Loader struct {
	opts   LoaderOptions
	mapper *FieldMapper
	logger *log.Logger
}

// NewLoader 创建数据读取器
func NewLoader(opts LoaderOptions) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		opts:   opts,
		mapper: NewFieldMapper(),
		logger: logger,
	}
}

// sheetRows 打开中的工作表：显示文本、原始值，以及判断日期单元格所需的工作簿
type sheetRows struct {
	file      *excelize.File
	name      string
	formatted [][]string
	raw       [][]string
	date1904  bool
	dateStyle map[int]bool // 样式索引 -> 是否日期格式
}

func (s *sheetRows) close() {
	_ = s.file.Close()
}

// dateLabel 日期单元格统一输出为 DateLayout（带时刻时为 DateTimeLayout），
// 与单元格的显示格式无关；文本单元格使用显示文本
func (s *sheetRows) dateLabel(row, col int) string {
	text := strings.TrimSpace(cellAt(s.formatted, row, col))
	serial, err := strconv.ParseFloat(strings.TrimSpace(cellAt(s.raw, row, col)), 64)
	// 小于 1 的序列号只含时刻
	if err != nil || serial < 1 || !s.isDateCell(row, col) {
		return text
	}
	t, err := excelize.ExcelDateToTime(serial, s.date1904)
	if err != nil {
		return text
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}

func (s *sheetRows) isDateCell(row, col int) bool {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return false
	}
	idx, err := s.file.GetCellStyle(s.name, cell)
	if err != nil {
		return false
	}
	if isDate, ok := s.dateStyle[idx]; ok {
		return isDate
	}
	style, err := s.file.GetStyle(idx)
	isDate := err == nil && isDateNumFmt(style)
	s.dateStyle[idx] = isDate
	return isDate
}

// Load 读取数据。任何失败都降级为空数据集并记录告警，不会返回错误。
func (l *Loader) Load() (ds *model.Dataset) {
	ds = model.EmptyDataset()

	defer func() {
		if r := recover(); r != nil {
			ds.Reset()
			l.warnf(ds, "数据读取失败: %v", r)
		}
	}()

	// 检查文件是否存在
	if !fileExists(l.opts.ForecastPath) {
		l.warnf(ds, "警告: 预测数据文件不存在 - %s", l.opts.ForecastPath)
		return ds
	}
	if !fileExists(l.opts.DecompositionPath) {
		l.warnf(ds, "警告: 分解数据文件不存在 - %s", l.opts.DecompositionPath)
		return ds
	}

	forecastSheet, err := readSheet(l.opts.ForecastPath, l.opts.ForecastSheet)
	if err != nil {
		l.warnf(ds, "数据读取失败: %v", err)
		return ds
	}
	defer forecastSheet.close()

	decompositionSheet, err := readSheet(l.opts.DecompositionPath, l.opts.DecompositionSheet)
	if err != nil {
		l.warnf(ds, "数据读取失败: %v", err)
		return ds
	}
	defer decompositionSheet.close()

	forecast, missing := l.parseForecast(forecastSheet)
	if len(missing) > 0 {
		l.warnf(ds, "错误: 预测数据缺少必要的列 - %s（工作表 %s）", strings.Join(missing, ", "), forecastSheet.name)
		return ds
	}
	ds.Forecast = forecast

	records, categories, hasDate := l.parseDecomposition(decompositionSheet)
	if !hasDate {
		l.warnf(ds, "警告: 分解数据缺少日期列 - %s", l.opts.DecompositionPath)
		return ds
	}
	ds.Decomposition = records
	ds.Categories = categories

	return ds
}

// parseForecast 解析预测表；缺少必要列时返回缺失字段
func (l *Loader) parseForecast(sheet *sheetRows) ([]model.ForecastRecord, []string) {
	if len(sheet.formatted) == 0 {
		return nil, ForecastRequiredFields
	}

	mappings := l.mapper.MapForecast(sheet.formatted[0])
	if missing := MissingFields(mappings, ForecastRequiredFields); len(missing) > 0 {
		return nil, missing
	}

	dateCol := mappings[FieldDate].ColumnIndex
	forecastCol := mappings[FieldForecast].ColumnIndex
	actualCol := mappings[FieldActual].ColumnIndex

	records := make([]model.ForecastRecord, 0, len(sheet.formatted)-1)
	for i := 1; i < len(sheet.formatted); i++ {
		// 仅过滤无效日期，保留预测值和实际值中的空值
		date := sheet.dateLabel(i, dateCol)
		if date == "" {
			continue
		}
		records = append(records, model.ForecastRecord{
			Date:     date,
			Forecast: ParseNumber(cellAt(sheet.raw, i, forecastCol)),
			Actual:   ParseNumber(cellAt(sheet.raw, i, actualCol)),
		})
	}
	return records, nil
}

// parseDecomposition 解析来源分解表，仅保留白名单内的类别列
func (l *Loader) parseDecomposition(sheet *sheetRows) ([]model.DecompositionRecord, []string, bool) {
	if len(sheet.formatted) == 0 {
		return nil, nil, false
	}

	dateMapping, hasDate, catMappings := l.mapper.MapDecomposition(sheet.formatted[0])
	if !hasDate {
		return nil, nil, false
	}

	categories := make([]string, 0, len(catMappings))
	for _, m := range catMappings {
		categories = append(categories, m.Field)
	}

	records := make([]model.DecompositionRecord, 0, len(sheet.formatted)-1)
	for i := 1; i < len(sheet.formatted); i++ {
		date := sheet.dateLabel(i, dateMapping.ColumnIndex)
		if date == "" {
			continue
		}
		values := make(map[string]*float64, len(catMappings))
		for _, m := range catMappings {
			values[m.Field] = ParseNumber(cellAt(sheet.raw, i, m.ColumnIndex))
		}
		records = append(records, model.DecompositionRecord{Date: date, Values: values})
	}
	return records, categories, true
}

func (l *Loader) warnf(ds *model.Dataset, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	ds.Warnings = append(ds.Warnings, msg)
	l.logger.Print(msg)
}

// readSheet 打开工作簿并读取指定工作表（为空时取第一个）。
// 成功时工作簿保持打开，由调用方 close。
func readSheet(path, sheet string) (*sheetRows, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel %s: %w", path, err)
	}
	rows, err := sheetFromFile(f, path, sheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return rows, nil
}

func sheetFromFile(f *excelize.File, path, sheet string) (*sheetRows, error) {
	name := sheet
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: workbook has no sheets", path)
		}
		name = sheets[0]
	}

	formatted, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s of %s: %w", name, path, err)
	}
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read raw sheet %s of %s: %w", name, path, err)
	}

	rows := &sheetRows{
		file:      f,
		name:      name,
		formatted: formatted,
		raw:       raw,
		dateStyle: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		rows.date1904 = *props.Date1904
	}
	return rows, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	st, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !st.IsDir()
}

package parser

import "strings"

// FieldMapper 字段映射器：把各种列名写法对应到标准字段
type FieldMapper struct {
	aliases    []ColumnAlias
	categories []string
}

// NewFieldMapper 使用默认对照表与类别白名单创建字段映射器
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{
		aliases:    ColumnAliases,
		categories: DecompositionCategories,
	}
}

// MapForecast 映射预测表字段，返回 标准字段 -> 列 的映射。
// 每个字段取对照表中第一个出现在表头里的写法。
func (m *FieldMapper) MapForecast(columnNames []string) map[string]FieldMapping {
	normalized := normalizeAll(columnNames)
	mappings := make(map[string]FieldMapping, len(m.aliases))

	for _, alias := range m.aliases {
		if mapping, ok := findColumn(normalized, alias.Field, alias.Aliases, true); ok {
			mappings[alias.Field] = mapping
		}
	}
	return mappings
}

// MapDecomposition 映射来源分解表：日期列与白名单内的类别列。
// 白名单之外的列被忽略；类别按白名单顺序返回。
func (m *FieldMapper) MapDecomposition(columnNames []string) (date FieldMapping, hasDate bool, categories []FieldMapping) {
	normalized := normalizeAll(columnNames)

	for _, alias := range m.aliases {
		if alias.Field != FieldDate {
			continue
		}
		date, hasDate = findColumn(normalized, FieldDate, alias.Aliases, true)
		break
	}

	// 类别列名必须与白名单完全一致
	for _, cat := range m.categories {
		if mapping, ok := findColumn(normalized, cat, []string{cat}, false); ok {
			categories = append(categories, mapping)
		}
	}
	return date, hasDate, categories
}

// MissingFields 返回映射中缺失的字段
func MissingFields(mappings map[string]FieldMapping, required []string) []string {
	var missing []string
	for _, field := range required {
		if _, ok := mappings[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

func normalizeAll(columnNames []string) []string {
	normalized := make([]string, len(columnNames))
	for i, col := range columnNames {
		normalized[i] = NormalizeColumnName(col)
	}
	return normalized
}

// findColumn 依次尝试各写法；foldCase 时英文写法不区分大小写。同名列取最左侧
func findColumn(columns []string, field string, aliases []string, foldCase bool) (FieldMapping, bool) {
	for _, alias := range aliases {
		for idx, col := range columns {
			if col == "" {
				continue
			}
			if col == alias || (foldCase && strings.EqualFold(col, alias)) {
				return FieldMapping{
					ColumnIndex: idx,
					ColumnName:  col,
					Field:       field,
				}, true
			}
		}
	}
	return FieldMapping{}, false
}

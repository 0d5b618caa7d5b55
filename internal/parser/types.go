package parser

// 标准字段名
const (
	FieldDate     = "date"
	FieldForecast = "forecast"
	FieldActual   = "actual"
)

// ColumnAlias 标准字段及其可接受的列名写法（按优先级排列）
type ColumnAlias struct {
	Field   string
	Aliases []string
}

// FieldMapping 字段映射结果
type FieldMapping struct {
	ColumnIndex int    `json:"columnIndex"` // Excel 列索引（从 0 开始）
	ColumnName  string `json:"columnName"`  // 规范化后的列名
	Field       string `json:"field"`       // 标准字段名或类别名
}

// ColumnAliases 预测表列名对照表
var ColumnAliases = []ColumnAlias{
	{Field: FieldDate, Aliases: []string{"date", "日期", "时间"}},
	{Field: FieldForecast, Aliases: []string{"预测值", "forecast", "预测"}},
	{Field: FieldActual, Aliases: []string{"实际值", "actual", "实际"}},
}

// ForecastRequiredFields 预测表必须具备的字段
var ForecastRequiredFields = []string{FieldDate, FieldForecast, FieldActual}

// DecompositionCategories 来源分解允许的类别（与 Excel 列名一致），顺序即输出顺序
var DecompositionCategories = []string{
	"生产", "居民消费", "外贸", "货币金融",
	"劳动就业", "交通物流", "财政", "投资", "GDP", "调查数据",
}

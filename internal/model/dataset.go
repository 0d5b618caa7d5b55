package model

import "github.com/shopspring/decimal"

// ForecastRecord 预测记录（一期一行）
type ForecastRecord struct {
	Date     string   `json:"date"`
	Forecast *float64 `json:"forecast"`
	Actual   *float64 `json:"actual"` // 尚未公布的实际值为 nil
}

// DecompositionRecord 来源分解记录，Values 以类别名为键
type DecompositionRecord struct {
	Date   string              `json:"date"`
	Values map[string]*float64 `json:"values"`
}

// Dataset 单次请求读取到的全部数据
type Dataset struct {
	Forecast      []ForecastRecord      `json:"forecast"`
	Decomposition []DecompositionRecord `json:"decomposition"`
	// Categories 分解表中实际出现的白名单类别，按输出顺序排列
	Categories []string `json:"categories"`
	Warnings   []string `json:"warnings,omitempty"`
}

// EmptyDataset 返回空数据集
func EmptyDataset() *Dataset {
	return &Dataset{}
}

// Reset 清空已读取的数据，保留告警
func (d *Dataset) Reset() {
	d.Forecast = nil
	d.Decomposition = nil
	d.Categories = nil
}

// IsEmpty 两个序列都没有数据
func (d *Dataset) IsEmpty() bool {
	return d == nil || (len(d.Forecast) == 0 && len(d.Decomposition) == 0)
}

// LatestForecast 最新一期预测值，保留两位小数（四舍五入）。
// 没有数据或最后一期预测值为空时返回 0。
func (d *Dataset) LatestForecast() float64 {
	if d == nil || len(d.Forecast) == 0 {
		return 0
	}
	last := d.Forecast[len(d.Forecast)-1].Forecast
	if last == nil {
		return 0
	}
	return RoundTo(*last, 2)
}

// RoundTo 按十进制四舍五入到 places 位小数，避免二进制浮点误差（如 2.675）
func RoundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

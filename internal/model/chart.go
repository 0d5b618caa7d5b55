package model

import (
	"bytes"
	"encoding/json"
)

// LineSeries 折线图数据：预测值与实际值
type LineSeries struct {
	Labels   []string   `json:"labels"`
	Forecast []*float64 `json:"forecast"`
	Actual   []*float64 `json:"actual"`
}

// MarshalJSON 无数据时输出 {}，前端据此判断是否绘图
func (s LineSeries) MarshalJSON() ([]byte, error) {
	if len(s.Labels) == 0 {
		return []byte("{}"), nil
	}
	type plain LineSeries
	return json.Marshal(plain(s))
}

// CategorySeries 单个分解类别的数值序列
type CategorySeries struct {
	Name   string
	Values []*float64
}

// BarSeries 堆叠柱状图数据，类别以各自名称为键平铺在对象中
type BarSeries struct {
	Labels []string
	Series []CategorySeries
}

// MarshalJSON 按 labels、类别白名单顺序输出键；无数据时输出 {}
func (s BarSeries) MarshalJSON() ([]byte, error) {
	if len(s.Labels) == 0 {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteString(`{"labels":`)
	labels, err := json.Marshal(s.Labels)
	if err != nil {
		return nil, err
	}
	buf.Write(labels)

	for _, cs := range s.Series {
		key, err := json.Marshal(cs.Name)
		if err != nil {
			return nil, err
		}
		values := cs.Values
		if values == nil {
			values = []*float64{}
		}
		vals, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(vals)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// GDPForecastResponse /api/gdp_forecast 响应
type GDPForecastResponse struct {
	Line LineSeries `json:"line"`
	Bar  BarSeries  `json:"bar"`
}

// NewGDPForecastResponse 由数据集构建图表数据
func NewGDPForecastResponse(ds *Dataset) GDPForecastResponse {
	var resp GDPForecastResponse
	if ds == nil {
		return resp
	}

	if len(ds.Forecast) > 0 {
		line := LineSeries{
			Labels:   make([]string, 0, len(ds.Forecast)),
			Forecast: make([]*float64, 0, len(ds.Forecast)),
			Actual:   make([]*float64, 0, len(ds.Forecast)),
		}
		for _, r := range ds.Forecast {
			line.Labels = append(line.Labels, r.Date)
			line.Forecast = append(line.Forecast, r.Forecast)
			line.Actual = append(line.Actual, r.Actual)
		}
		resp.Line = line
	}

	if len(ds.Decomposition) > 0 {
		bar := BarSeries{
			Labels: make([]string, 0, len(ds.Decomposition)),
			Series: make([]CategorySeries, 0, len(ds.Categories)),
		}
		for _, r := range ds.Decomposition {
			bar.Labels = append(bar.Labels, r.Date)
		}
		// 保留所有类别，即使整列为 0
		for _, cat := range ds.Categories {
			values := make([]*float64, 0, len(ds.Decomposition))
			for _, r := range ds.Decomposition {
				values = append(values, r.Values[cat])
			}
			bar.Series = append(bar.Series, CategorySeries{Name: cat, Values: values})
		}
		resp.Bar = bar
	}

	return resp
}

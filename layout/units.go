package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// 布局内部统一使用毫米，报告中的尺寸常量以 pt 书写，经 Pt 换算。

// Unit 是长度的原始单位。
type Unit int

const (
	UnitMM Unit = iota
	UnitCM
	UnitIN
	UnitPT
)

const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// LineHeightFactor 是行高相对字号的倍数。
const LineHeightFactor = 1.15

// Pt 把 pt 换算为 mm。
func Pt(v float64) float64 { return v * PtToMm }

// LineHeight 返回 fontSize（mm）对应的行高（mm）。
func LineHeight(fontSize float64) float64 { return fontSize * LineHeightFactor }

// Length 保留数值与单位，配置中的边距等长度先解析为 Length 再换算。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

var mmPer = map[Unit]float64{
	UnitMM: 1,
	UnitCM: 10,
	UnitIN: 25.4,
	UnitPT: PtToMm,
}

// ToMM 换算为毫米。
func (l Length) ToMM() float64 {
	if f, ok := mmPer[l.Unit]; ok {
		return l.Value * f
	}
	return l.Value
}

// ToPT 换算为 pt。
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

// ParseLength 解析 "50pt"、"18mm"、"2cm" 之类的长度；纯数字按 fallback 单位解释。
func ParseLength(value string, fallback Unit) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	l := Length{Unit: fallback}
	for _, s := range unitSuffixes {
		if num, ok := strings.CutSuffix(v, s.suffix); ok {
			v, l.Unit = strings.TrimSpace(num), s.unit
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度不能为负数: %q", value)
	}
	l.Value = f
	return l, nil
}

// PageSize 是纵向纸张尺寸，单位 mm。
type PageSize struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

var pagePresets = map[string]PageSize{
	"A4":     {Name: "A4", Width: 210, Height: 297},
	"A5":     {Name: "A5", Width: 148, Height: 210},
	"LETTER": {Name: "LETTER", Width: 215.9, Height: 279.4},
}

// ResolvePageSize 按名称查找纸张尺寸（大小写不敏感）。
func ResolvePageSize(name string) (PageSize, error) {
	size, ok := pagePresets[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return PageSize{}, fmt.Errorf("暂不支持的纸张尺寸：%s", name)
	}
	return size, nil
}

// UniformMargin 返回四边相同的边距。
func UniformMargin(v float64) Margin {
	return Margin{Top: v, Right: v, Bottom: v, Left: v}
}

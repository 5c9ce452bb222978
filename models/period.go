package models

import (
	"fmt"
	"time"
)

// DateLayout 日期格式，所有日期均按 UTC 解析
const DateLayout = "2006-01-02"

// Period 预算周期（自然月）
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// PeriodOf 由日期推导所属周期
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// CurrentPeriod 当前时间所在周期
func CurrentPeriod(now time.Time) Period {
	return PeriodOf(now.UTC())
}

// Valid 月份在 1-12 且年份为正
func (p Period) Valid() bool {
	return p.Year > 0 && p.Month >= 1 && p.Month <= 12
}

// Bounds 返回周期的半开区间 [start, end)
func (p Period) Bounds() (time.Time, time.Time) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ParseDate 解析 YYYY-MM-DD 格式日期
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

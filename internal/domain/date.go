package domain

import (
	"errors"
	"time"
)

// StartOfDay 将时间截断到所在时区的零点
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DateIn 保留 t 本身的日历日期，换成 loc 时区的零点
//
// 数据库 DATE 列扫描出来是 UTC 零点，直接 In(loc) 会变成前一天或带上时分。
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// InclusiveDays 计算两个日期之间包含首尾的天数，只看日历日期而忽略时分秒
func InclusiveDays(start, end time.Time) int {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	// 用 UTC 计算可以避免夏令时导致某天不是 24 小时
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDate 解析客户端传来的日期，不带时区的格式按 loc 解析
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("无法解析日期: " + s)
}

// Hours 返回两个时间点之间的小时数（不取整）
func Hours(from, to time.Time) float64 {
	return to.Sub(from).Hours()
}

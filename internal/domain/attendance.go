package domain

import "time"

type AttendanceRecord struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employeeId"`
	Date       time.Time  `json:"date"`
	CheckIn    *time.Time `json:"checkIn"`
	CheckOut   *time.Time `json:"checkOut"`
	TotalHours *float64   `json:"totalHours"`
	Note       string     `json:"note"`
	Employee   *Employee  `json:"employee,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Version    int32      `json:"-"`
}

// Open 表示已签到但还没有签退
func (a *AttendanceRecord) Open() bool {
	return a.CheckIn != nil && a.CheckOut == nil
}

// AttendancePatch 是手动调整考勤时的覆盖字段，nil 表示保持不变
type AttendancePatch struct {
	Date       *time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	TotalHours *float64
	Note       *string
}

func (p AttendancePatch) Apply(rec *AttendanceRecord) {
	if p.Date != nil {
		rec.Date = *p.Date
	}
	if p.CheckIn != nil {
		rec.CheckIn = p.CheckIn
	}
	if p.CheckOut != nil {
		rec.CheckOut = p.CheckOut
	}
	if p.TotalHours != nil {
		rec.TotalHours = p.TotalHours
	}
	if p.Note != nil {
		rec.Note = *p.Note
	}
}

func (p AttendancePatch) Details() Details {
	d := Details{}
	if p.Date != nil {
		d["date"] = Time(*p.Date)
	}
	if p.CheckIn != nil {
		d["checkIn"] = Time(*p.CheckIn)
	}
	if p.CheckOut != nil {
		d["checkOut"] = Time(*p.CheckOut)
	}
	if p.TotalHours != nil {
		d["totalHours"] = Number(*p.TotalHours)
	}
	if p.Note != nil {
		d["note"] = String(*p.Note)
	}
	return d
}

type AttendanceFilter struct {
	EmployeeID *int64
	DateFrom   *time.Time
	DateTo     *time.Time
}

type DailyCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

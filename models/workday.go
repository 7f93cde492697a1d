package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// AbsenceCode is the closed set of day markers an employee or admin can put
// on a work day instead of (or next to) punch times.
type AbsenceCode string

const (
	AbsenceRegular          AbsenceCode = ""
	AbsenceVacation         AbsenceCode = "U"
	AbsenceHalfVacation     AbsenceCode = "UH"
	AbsenceSick             AbsenceCode = "K"
	AbsenceChildSick        AbsenceCode = "KK"
	AbsenceSickReduced      AbsenceCode = "KR"
	AbsenceChildSickReduced AbsenceCode = "KKR"
	AbsenceShortWork        AbsenceCode = "KU"
	AbsenceHoliday          AbsenceCode = "FT"
	AbsenceUnpaidLeave      AbsenceCode = "UBF"
)

// ParseAbsenceCode normalizes a stored code string. Unknown codes fall back
// to a regular working day so a stray value can never abort a batch run.
func ParseAbsenceCode(raw string) AbsenceCode {
	switch AbsenceCode(strings.ToUpper(strings.TrimSpace(raw))) {
	case AbsenceVacation:
		return AbsenceVacation
	case AbsenceHalfVacation:
		return AbsenceHalfVacation
	case AbsenceSick:
		return AbsenceSick
	case AbsenceChildSick:
		return AbsenceChildSick
	case AbsenceSickReduced:
		return AbsenceSickReduced
	case AbsenceChildSickReduced:
		return AbsenceChildSickReduced
	case AbsenceShortWork:
		return AbsenceShortWork
	case AbsenceHoliday:
		return AbsenceHoliday
	case AbsenceUnpaidLeave:
		return AbsenceUnpaidLeave
	default:
		return AbsenceRegular
	}
}

// WorkDay is one calendar day for one employee: the raw punches as entered,
// the declared pause, the plan baseline and everything the reconciliation
// engine derives from them.
type WorkDay struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	EmployeeID uint           `gorm:"not null;index:idx_workday_employee_day,unique" json:"employee_id"`
	Employee   *Employee      `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Day        time.Time      `gorm:"not null;type:date;index:idx_workday_employee_day,unique" json:"day"`

	// Absence code as entered ("U", "K", "KU", ... or empty for a regular day).
	Code string `gorm:"size:10" json:"code"`

	// Punch times as HH:MM strings, empty when not punched. The second pair
	// covers split shifts.
	Kommt1 string `gorm:"size:5" json:"kommt1"`
	Geht1  string `gorm:"size:5" json:"geht1"`
	Kommt2 string `gorm:"size:5" json:"kommt2"`
	Geht2  string `gorm:"size:5" json:"geht2"`

	// Declared break: "Keine", "30min", "45min." or bare minutes.
	Pause string `gorm:"size:20" json:"pause"`

	PlanHours float64 `gorm:"not null;default:0" json:"plan_hours"`

	// Absence-hour buckets, filled by the engine depending on Code.
	SickHours      float64 `gorm:"not null;default:0" json:"sick_hours"`
	ChildSickHours float64 `gorm:"not null;default:0" json:"child_sick_hours"`
	ShortWorkHours float64 `gorm:"not null;default:0" json:"short_work_hours"`
	VacationHours  float64 `gorm:"not null;default:0" json:"vacation_hours"`
	HolidayHours   float64 `gorm:"not null;default:0" json:"holiday_hours"`

	// Derived per-day results, persisted for reporting.
	RawHours   float64 `gorm:"not null;default:0" json:"raw_hours"`
	PauseHours float64 `gorm:"not null;default:0" json:"pause_hours"`
	NetHours   float64 `gorm:"not null;default:0" json:"net_hours"`

	// Contribution to the running balance and overflow pushed to the payout
	// bank, as of the last reconciliation run.
	OvertimeDelta  float64 `gorm:"not null;default:0" json:"overtime_delta"`
	ForcedOverflow float64 `gorm:"not null;default:0" json:"forced_overflow"`
}

func (w *WorkDay) AbsenceCode() AbsenceCode {
	return ParseAbsenceCode(w.Code)
}

type WorkDayFilter struct {
	EmployeeID   uint
	DepartmentID uint
	Month        int
	Year         int
}

package models

import (
	"time"
)

// ShiftPlan holds the scheduled hours for one weekday of one employee.
// It backs the plan-hours fallback when a work day was logged without a
// stored plan value.
type ShiftPlan struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	EmployeeID uint      `gorm:"not null;index:idx_shiftplan_employee_weekday,unique" json:"employee_id"`
	Weekday    int       `gorm:"not null;index:idx_shiftplan_employee_weekday,unique" json:"weekday"` // 0 = Sunday, matches time.Weekday
	Hours      float64   `gorm:"not null;default:0" json:"hours"`
}

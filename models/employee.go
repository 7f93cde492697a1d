package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Employee struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	StaffNumber  string         `gorm:"uniqueIndex;not null;size:50" json:"staff_number"`
	FullName     string         `gorm:"not null;size:200" json:"full_name"`
	DepartmentID *uint          `gorm:"index" json:"department_id"`
	Department   *Department    `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`

	// Hourly rate used to price payout requests.
	HourlyRate decimal.Decimal `gorm:"type:numeric(10,2)" json:"hourly_rate"`

	// Reconciliation settings: how far the balance may go below zero and
	// how high it may grow before overflow is diverted to the payout bank.
	MaxMinusHours    float64 `gorm:"not null;default:0" json:"max_minus_hours"`
	MaxOvertimeHours float64 `gorm:"not null;default:0" json:"max_overtime_hours"`

	// Aggregates written back after each reconciliation run.
	BalanceHours    float64 `gorm:"not null;default:0" json:"balance_hours"`
	PayoutBankHours float64 `gorm:"not null;default:0" json:"payout_bank_hours"`

	WorkDays []WorkDay `gorm:"foreignKey:EmployeeID" json:"work_days,omitempty"`
}

func (e *Employee) DisplayName() string {
	if e.FullName != "" {
		return e.FullName
	}
	return e.StaffNumber
}

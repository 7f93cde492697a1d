package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PayoutStatus string

const (
	PayoutPending  PayoutStatus = "PENDING"
	PayoutApproved PayoutStatus = "APPROVED"
	PayoutRejected PayoutStatus = "REJECTED"
)

// PayoutRequest is an employee's request to cash out hours accumulated in
// the payout overflow bank.
type PayoutRequest struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
	Reference  string          `gorm:"uniqueIndex;not null;size:36" json:"reference"`
	EmployeeID uint            `gorm:"not null;index" json:"employee_id"`
	Employee   *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Hours      decimal.Decimal `gorm:"type:numeric(8,2)" json:"hours"`
	Amount     decimal.Decimal `gorm:"type:numeric(10,2)" json:"amount"`
	Status     PayoutStatus    `gorm:"not null;size:20;default:PENDING" json:"status"`
	ResolvedAt *time.Time      `json:"resolved_at"`
}

func NewPayoutReference() string {
	return uuid.NewString()
}

func (p *PayoutRequest) IsPending() bool {
	return p.Status == PayoutPending
}

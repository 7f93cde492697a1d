package handlers

import (
	"worktime/models"
	"worktime/reconcile"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReconcileEmployee loads all of an employee's work days, runs the
// reconciliation engine and persists the corrected days together with the
// new balance aggregates in one transaction. A *reconcile.BalanceLimitError
// aborts without writing anything.
func ReconcileEmployee(db *gorm.DB, employee *models.Employee) (reconcile.Result, error) {
	var days []models.WorkDay
	if err := db.Where("employee_id = ?", employee.ID).Find(&days).Error; err != nil {
		return reconcile.Result{}, err
	}

	planFor, err := shiftPlanProvider(db, employee.ID)
	if err != nil {
		return reconcile.Result{}, err
	}

	settings := reconcile.Settings{
		MaxMinusHours:    employee.MaxMinusHours,
		MaxOvertimeHours: employee.MaxOvertimeHours,
	}

	result, err := reconcile.Recalculate(days, settings, planFor)
	if err != nil {
		return reconcile.Result{}, err
	}

	// The engine recomputes the overflow total from scratch; hours already
	// cashed out must not reappear in the bank.
	paidOut, err := approvedPayoutHours(db, employee.ID)
	if err != nil {
		return reconcile.Result{}, err
	}
	result.PayoutBankHours -= paidOut
	if result.PayoutBankHours < 0 {
		result.PayoutBankHours = 0
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range result.UpdatedDays {
			if err := tx.Save(&result.UpdatedDays[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Employee{}).Where("id = ?", employee.ID).Updates(map[string]any{
			"balance_hours":     result.BalanceHours,
			"payout_bank_hours": result.PayoutBankHours,
		}).Error
	})
	if err != nil {
		return reconcile.Result{}, err
	}

	employee.BalanceHours = result.BalanceHours
	employee.PayoutBankHours = result.PayoutBankHours
	return result, nil
}

// approvedPayoutHours sums the hours of every payout request that has
// already been cashed out for the employee.
func approvedPayoutHours(db *gorm.DB, employeeID uint) (float64, error) {
	var requests []models.PayoutRequest
	err := db.Where("employee_id = ? AND status = ?", employeeID, models.PayoutApproved).
		Find(&requests).Error
	if err != nil {
		return 0, err
	}

	total := decimal.Zero
	for _, r := range requests {
		total = total.Add(r.Hours)
	}
	return total.InexactFloat64(), nil
}

// shiftPlanProvider preloads the employee's weekly plan and returns the
// plan-hours fallback for days logged without a stored plan value.
func shiftPlanProvider(db *gorm.DB, employeeID uint) (reconcile.PlanHoursFunc, error) {
	var plans []models.ShiftPlan
	if err := db.Where("employee_id = ?", employeeID).Find(&plans).Error; err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, nil
	}

	byWeekday := make(map[int]float64, len(plans))
	for _, p := range plans {
		byWeekday[p.Weekday] = p.Hours
	}

	return func(day models.WorkDay) float64 {
		return byWeekday[int(day.Day.Weekday())]
	}, nil
}

// Package reconcile folds an employee's work days into per-day overtime
// corrections and a running balance with a payout overflow bank.
//
// The fold is strictly sequential: every day's outcome depends on the
// balance carried from all earlier days of the same employee, so a batch for
// one employee must never be split or reordered. Different employees are
// independent.
package reconcile

import (
	"fmt"
	"math"
	"sort"

	"worktime/models"
	"worktime/timecalc"
)

// Epsilon is the tolerance below which hour values count as equal. Hours are
// plain decimals carried in float64, so derived values accumulate small
// drift; comparisons against stored rows must absorb it.
const Epsilon = 1e-4

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// Settings are the per-employee balance limits.
type Settings struct {
	MaxMinusHours    float64
	MaxOvertimeHours float64
}

// PlanHoursFunc supplies plan hours for a day that has no positive stored
// plan value, typically from a shift-plan lookup keyed by date.
type PlanHoursFunc func(day models.WorkDay) float64

// Result is what one reconciliation run produces. UpdatedDays holds only the
// days whose derived values changed; unchanged days need no write.
type Result struct {
	UpdatedDays     []models.WorkDay
	BalanceHours    float64
	PayoutBankHours float64
}

// BalanceLimitError reports a deficit that cannot be absorbed without
// pushing the balance below the configured minus-hours limit. It aborts the
// run; callers must not persist anything from it.
type BalanceLimitError struct {
	Day           models.WorkDay
	MaxMinusHours float64
}

func (e *BalanceLimitError) Error() string {
	return fmt.Sprintf("work day %s would push the balance below the minus-hours limit of %.2f",
		e.Day.Day.Format("2006-01-02"), e.MaxMinusHours)
}

// Recalculate re-derives every day and the running balance from scratch.
//
// Days are processed in ascending day order (sorted here, callers may pass
// any order). For each day the plan baseline is resolved, net hours are
// computed from punches, the absence code is applied, and the signed delta
// against the plan is booked: surplus fills the balance up to
// MaxOvertimeHours and overflows into the payout bank; deficit drains the
// payout bank first and then the balance down to -MaxMinusHours.
//
// The run is idempotent: feeding the returned UpdatedDays back in yields no
// further changes.
func Recalculate(days []models.WorkDay, settings Settings, planFor PlanHoursFunc) (Result, error) {
	sorted := make([]models.WorkDay, len(days))
	copy(sorted, days)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Day.Before(sorted[j].Day)
	})

	var result Result
	balance := 0.0
	payoutSaldo := 0.0

	for _, day := range sorted {
		plan := day.PlanHours
		if plan <= 0 {
			plan = 0
			if planFor != nil {
				plan = planFor(day)
				if plan < 0 {
					plan = 0
				}
			}
		}

		span := timecalc.ComputeNetHours(day.Kommt1, day.Geht1, day.Kommt2, day.Geht2, day.Pause)

		netWorked := span.NetHours
		deltaPlan := plan
		storePlan := plan

		sick := day.SickHours
		childSick := day.ChildSickHours
		shortWork := day.ShortWorkHours
		vacation := day.VacationHours

		switch day.AbsenceCode() {
		case models.AbsenceVacation:
			netWorked = storePlan
			deltaPlan = storePlan
			vacation = storePlan
		case models.AbsenceHalfVacation:
			deltaPlan = storePlan - storePlan/2
			vacation = storePlan / 2
		case models.AbsenceSick:
			netWorked = storePlan
			deltaPlan = storePlan
			sick = storePlan
		case models.AbsenceChildSick:
			netWorked = storePlan
			deltaPlan = storePlan
			childSick = storePlan
		case models.AbsenceSickReduced:
			// credit only the shortfall, attendance already counts
			sick = math.Max(storePlan-span.NetHours, 0)
			netWorked = storePlan
			deltaPlan = storePlan
		case models.AbsenceChildSickReduced:
			childSick = math.Max(storePlan-span.NetHours, 0)
			netWorked = storePlan
			deltaPlan = storePlan
		case models.AbsenceShortWork:
			shortWork = math.Max(shortWork, plan)
			netWorked = 0
			deltaPlan = 0
			storePlan = 0
		case models.AbsenceHoliday:
			if day.HolidayHours > 0 {
				netWorked = storePlan
				deltaPlan = storePlan
			}
		case models.AbsenceUnpaidLeave:
			netWorked = 0
			deltaPlan = 0
			storePlan = 0
		case models.AbsenceRegular:
			// punches stand as computed
		}

		delta := netWorked - deltaPlan

		var overtimeDelta, forcedOverflow float64
		switch {
		case delta > Epsilon:
			room := math.Max(0, settings.MaxOvertimeHours-balance)
			used := math.Min(room, delta)
			forced := delta - used
			balance += used
			payoutSaldo += forced
			overtimeDelta = used
			forcedOverflow = forced
		case delta < -Epsilon:
			need := -delta
			fromPayout := math.Min(payoutSaldo, need)
			payoutSaldo -= fromPayout
			remaining := need - fromPayout
			allowedMinus := balance + settings.MaxMinusHours
			fromBalance := math.Min(allowedMinus, remaining)
			if fromBalance < 0 {
				fromBalance = 0
			}
			balance -= fromBalance
			overtimeDelta = -fromBalance
			forcedOverflow = -fromPayout
			if remaining-fromBalance > Epsilon || balance < -settings.MaxMinusHours-Epsilon {
				return Result{}, &BalanceLimitError{Day: day, MaxMinusHours: settings.MaxMinusHours}
			}
		}

		changed := !almostEqual(overtimeDelta, day.OvertimeDelta) ||
			!almostEqual(forcedOverflow, day.ForcedOverflow) ||
			!almostEqual(storePlan, day.PlanHours) ||
			!almostEqual(sick, day.SickHours) ||
			!almostEqual(childSick, day.ChildSickHours) ||
			!almostEqual(shortWork, day.ShortWorkHours) ||
			!almostEqual(vacation, day.VacationHours)

		if changed {
			updated := day
			updated.PlanHours = storePlan
			updated.SickHours = sick
			updated.ChildSickHours = childSick
			updated.ShortWorkHours = shortWork
			updated.VacationHours = vacation
			updated.RawHours = span.RawHours
			updated.PauseHours = span.PauseHours
			updated.NetHours = span.NetHours
			updated.OvertimeDelta = overtimeDelta
			updated.ForcedOverflow = forcedOverflow
			result.UpdatedDays = append(result.UpdatedDays, updated)
		}
	}

	result.BalanceHours = math.Min(math.Max(balance, -settings.MaxMinusHours), settings.MaxOvertimeHours)
	result.PayoutBankHours = payoutSaldo
	return result, nil
}

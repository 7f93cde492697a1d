package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktime/models"
	"worktime/reconcile"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func punchedDay(d int, kommt, geht string, plan float64) models.WorkDay {
	return models.WorkDay{
		Day:       day(d),
		Kommt1:    kommt,
		Geht1:     geht,
		Pause:     "Keine",
		PlanHours: plan,
	}
}

var wideLimits = reconcile.Settings{MaxMinusHours: 100, MaxOvertimeHours: 100}

func TestRecalculate_ExactPlanIsNoop(t *testing.T) {
	// GIVEN: a day whose net hours exactly match the plan and whose stored
	// deltas are already zero
	// THEN: nothing needs to be written and the balance stays flat
	d := punchedDay(3, "08:00", "16:00", 8)

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, nil)
	require.NoError(t, err)
	assert.Empty(t, res.UpdatedDays)
	assert.InDelta(t, 0, res.BalanceHours, 1e-9)
	assert.InDelta(t, 0, res.PayoutBankHours, 1e-9)
}

func TestRecalculate_OvertimeAccrues(t *testing.T) {
	d := punchedDay(3, "08:00", "18:00", 8) // 10h raw, 45min pause -> 9.25 net

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, nil)
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 1)

	upd := res.UpdatedDays[0]
	assert.InDelta(t, 1.25, upd.OvertimeDelta, 1e-6)
	assert.InDelta(t, 0, upd.ForcedOverflow, 1e-6)
	assert.InDelta(t, 10, upd.RawHours, 1e-6)
	assert.InDelta(t, 0.75, upd.PauseHours, 1e-6)
	assert.InDelta(t, 9.25, upd.NetHours, 1e-6)
	assert.InDelta(t, 1.25, res.BalanceHours, 1e-6)
}

func TestRecalculate_DeficitReducesBalance(t *testing.T) {
	d := punchedDay(3, "08:00", "14:00", 8) // 6h net vs 8h plan

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, nil)
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 1)
	assert.InDelta(t, -2, res.UpdatedDays[0].OvertimeDelta, 1e-6)
	assert.InDelta(t, -2, res.BalanceHours, 1e-6)
}

func TestRecalculate_SortsByDay(t *testing.T) {
	// day 2 overdraws unless the surplus from day 1 is booked first
	surplus := punchedDay(1, "08:00", "18:00", 8)  // +1.25
	deficit := punchedDay(2, "08:00", "13:00", 8)  // -3

	settings := reconcile.Settings{MaxMinusHours: 2, MaxOvertimeHours: 100}
	res, err := reconcile.Recalculate([]models.WorkDay{deficit, surplus}, settings, nil)
	require.NoError(t, err)
	assert.InDelta(t, -1.75, res.BalanceHours, 1e-6)
}

func TestRecalculate_VacationDay(t *testing.T) {
	d := models.WorkDay{Day: day(5), Code: "U", PlanHours: 8}

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, nil)
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 1)

	upd := res.UpdatedDays[0]
	assert.InDelta(t, 8, upd.VacationHours, 1e-6)
	assert.InDelta(t, 0, upd.OvertimeDelta, 1e-6)
	assert.InDelta(t, 0, res.BalanceHours, 1e-6)
}

func TestRecalculate_HalfVacationDay(t *testing.T) {
	// half a day of vacation, the other half worked as planned
	d := models.WorkDay{Day: day(5), Code: "UH", Kommt1: "08:00", Geht1: "12:00", Pause: "Keine", PlanHours: 8}

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, nil)
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 1)

	upd := res.UpdatedDays[0]
	assert.InDelta(t, 4, upd.VacationHours, 1e-6)
	assert.InDelta(t, 0, upd.OvertimeDelta, 1e-6) // 4h worked vs 4h remaining plan
	assert.InDelta(t, 0, res.BalanceHours, 1e-6)
}

func TestRecalculate_SickDay(t *testing.T) {
	d := models.WorkDay{Day: day(5), Code: "k", PlanHours: 7.7} // codes are case-insensitive

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, nil)
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 1)
	assert.InDelta(t, 7.7, res.UpdatedDays[0].SickHours, 1e-6)
	assert.InDelta(t, 0, res.BalanceHours, 1e-6)
}

func TestRecalculate_SickReducedCreditsOnlyShortfall(t *testing.T) {
	// went home sick after five hours of an eight hour plan
	d := models.WorkDay{Day: day(5), Code: "KR", Kommt1: "08:00", Geht1: "13:00", Pause: "Keine", PlanHours: 8}

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, nil)
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 1)

	upd := res.UpdatedDays[0]
	assert.InDelta(t, 3, upd.SickHours, 1e-6)
	assert.InDelta(t, 0, upd.OvertimeDelta, 1e-6)
}

func TestRecalculate_ChildSickReduced(t *testing.T) {
	d := models.WorkDay{Day: day(5), Code: "KKR", Kommt1: "08:00", Geht1: "14:00", Pause: "Keine", PlanHours: 8}

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, nil)
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 1)
	assert.InDelta(t, 2, res.UpdatedDays[0].ChildSickHours, 1e-6)
	assert.InDelta(t, 0, res.UpdatedDays[0].SickHours, 1e-6)
}

func TestRecalculate_ShortWorkDayContributesNothing(t *testing.T) {
	d := models.WorkDay{Day: day(5), Code: "KU", PlanHours: 8, ShortWorkHours: 6}

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, nil)
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 1)

	upd := res.UpdatedDays[0]
	assert.InDelta(t, 8, upd.ShortWorkHours, 1e-6) // max(existing, plan)
	assert.InDelta(t, 0, upd.PlanHours, 1e-6)
	assert.InDelta(t, 0, upd.OvertimeDelta, 1e-6)
	assert.InDelta(t, 0, res.BalanceHours, 1e-6)
}

func TestRecalculate_UnpaidLeaveFullyZeroed(t *testing.T) {
	d := models.WorkDay{Day: day(5), Code: "UBF", PlanHours: 8}

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, nil)
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 1)

	upd := res.UpdatedDays[0]
	assert.InDelta(t, 0, upd.PlanHours, 1e-6)
	assert.InDelta(t, 0, upd.VacationHours, 1e-6)
	assert.InDelta(t, 0, upd.OvertimeDelta, 1e-6)
}

func TestRecalculate_HolidayWithHolidayHours(t *testing.T) {
	d := models.WorkDay{Day: day(5), Code: "FT", PlanHours: 8, HolidayHours: 8}

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, nil)
	require.NoError(t, err)
	assert.Empty(t, res.UpdatedDays) // net == plan and no bucket changed
	assert.InDelta(t, 0, res.BalanceHours, 1e-6)
}

func TestRecalculate_PlanHoursProviderFallback(t *testing.T) {
	d := models.WorkDay{Day: day(5), Kommt1: "08:00", Geht1: "16:30", Pause: "Keine"}

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, func(models.WorkDay) float64 {
		return 7.5
	})
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 1)
	assert.InDelta(t, 7.5, res.UpdatedDays[0].PlanHours, 1e-6)
	assert.InDelta(t, 0.5, res.UpdatedDays[0].OvertimeDelta, 1e-6)
}

func TestRecalculate_NegativeProviderValueFlooredAtZero(t *testing.T) {
	d := models.WorkDay{Day: day(5), Kommt1: "08:00", Geht1: "10:00", Pause: "Keine"}

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, func(models.WorkDay) float64 {
		return -3
	})
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 1)
	assert.InDelta(t, 2, res.UpdatedDays[0].OvertimeDelta, 1e-6)
}

func TestRecalculate_NegativeStoredPlanTreatedAsZero(t *testing.T) {
	// a corrupted negative plan value must not inflate the day's surplus
	d := punchedDay(5, "08:00", "10:00", -3)

	res, err := reconcile.Recalculate([]models.WorkDay{d}, wideLimits, nil)
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 1)
	assert.InDelta(t, 0, res.UpdatedDays[0].PlanHours, 1e-9)
	assert.InDelta(t, 2, res.UpdatedDays[0].OvertimeDelta, 1e-6)
	assert.InDelta(t, 2, res.BalanceHours, 1e-6)
}

func TestRecalculate_OverflowGoesToPayoutBank(t *testing.T) {
	// 8.5h surplus headroom of 1h: the rest must land in the payout bank
	d := punchedDay(3, "08:00", "17:15", 8) // 9.25 raw, 0.75 pause -> 8.5 net, +0.5 delta
	long := punchedDay(4, "06:00", "18:00", 8) // 12 raw, 0.75 pause -> 11.25 net, +3.25 delta

	settings := reconcile.Settings{MaxMinusHours: 10, MaxOvertimeHours: 1}
	res, err := reconcile.Recalculate([]models.WorkDay{d, long}, settings, nil)
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 2)

	assert.InDelta(t, 0.5, res.UpdatedDays[0].OvertimeDelta, 1e-6)
	assert.InDelta(t, 0, res.UpdatedDays[0].ForcedOverflow, 1e-6)
	assert.InDelta(t, 0.5, res.UpdatedDays[1].OvertimeDelta, 1e-6)
	assert.InDelta(t, 2.75, res.UpdatedDays[1].ForcedOverflow, 1e-6)

	assert.LessOrEqual(t, res.BalanceHours, settings.MaxOvertimeHours)
	assert.InDelta(t, 2.75, res.PayoutBankHours, 1e-6)
}

func TestRecalculate_DeficitDrainsPayoutBankFirst(t *testing.T) {
	settings := reconcile.Settings{MaxMinusHours: 10, MaxOvertimeHours: 1}
	long := punchedDay(1, "06:00", "18:00", 8)    // banks 2.25h after the 1h ceiling
	deficit := punchedDay(2, "08:00", "15:30", 8) // 7.5h raw, 7h net, -1 delta

	res, err := reconcile.Recalculate([]models.WorkDay{long, deficit}, settings, nil)
	require.NoError(t, err)
	require.Len(t, res.UpdatedDays, 2)

	upd := res.UpdatedDays[1]
	assert.InDelta(t, -1, upd.ForcedOverflow, 1e-6, "deficit must come out of the payout bank first")
	assert.InDelta(t, 0, upd.OvertimeDelta, 1e-6)
	assert.InDelta(t, 1, res.BalanceHours, 1e-6)
	assert.InDelta(t, 1.25, res.PayoutBankHours, 1e-6)
}

func TestRecalculate_MinusFloorIsAHardError(t *testing.T) {
	settings := reconcile.Settings{MaxMinusHours: 1, MaxOvertimeHours: 10}
	d := punchedDay(3, "08:00", "13:00", 8) // -3 delta against a 1h floor

	_, err := reconcile.Recalculate([]models.WorkDay{d}, settings, nil)
	require.Error(t, err)

	var limitErr *reconcile.BalanceLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.InDelta(t, 1, limitErr.MaxMinusHours, 1e-9)
	assert.Equal(t, day(3), limitErr.Day.Day)
}

func TestRecalculate_FixedPointAfterMergeBack(t *testing.T) {
	days := []models.WorkDay{
		punchedDay(1, "08:00", "18:00", 8),
		{Day: day(2), Code: "U", PlanHours: 8},
		punchedDay(3, "08:00", "15:00", 8),
		{Day: day(4), Code: "KU", PlanHours: 8},
	}

	first, err := reconcile.Recalculate(days, wideLimits, nil)
	require.NoError(t, err)
	require.NotEmpty(t, first.UpdatedDays)

	// merge the corrections back in, keyed by day
	merged := make([]models.WorkDay, len(days))
	copy(merged, days)
	for i := range merged {
		for _, upd := range first.UpdatedDays {
			if upd.Day.Equal(merged[i].Day) {
				merged[i] = upd
			}
		}
	}

	second, err := reconcile.Recalculate(merged, wideLimits, nil)
	require.NoError(t, err)
	assert.Empty(t, second.UpdatedDays, "second pass over merged results must be a no-op")
	assert.InDelta(t, first.BalanceHours, second.BalanceHours, 1e-9)
	assert.InDelta(t, first.PayoutBankHours, second.PayoutBankHours, 1e-9)
}

func TestRecalculate_BalanceClampedToCeiling(t *testing.T) {
	settings := reconcile.Settings{MaxMinusHours: 5, MaxOvertimeHours: 2}
	days := []models.WorkDay{
		punchedDay(1, "06:00", "18:00", 8),
		punchedDay(2, "06:00", "18:00", 8),
	}

	res, err := reconcile.Recalculate(days, settings, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2, res.BalanceHours, 1e-6)
	assert.Greater(t, res.PayoutBankHours, 0.0)
}

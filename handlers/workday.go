package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"worktime/database"
	"worktime/middleware"
	"worktime/models"
	"worktime/reconcile"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WorkdayHandler struct {
	logger *zap.Logger
}

func NewWorkdayHandler(logger *zap.Logger) *WorkdayHandler {
	return &WorkdayHandler{logger: logger}
}

type workdayRequest struct {
	Day          string  `json:"day"`
	Code         string  `json:"code"`
	Kommt1       string  `json:"kommt1"`
	Geht1        string  `json:"geht1"`
	Kommt2       string  `json:"kommt2"`
	Geht2        string  `json:"geht2"`
	Pause        string  `json:"pause"`
	PlanHours    float64 `json:"plan_hours"`
	HolidayHours float64 `json:"holiday_hours"`
}

type reconcileSummary struct {
	UpdatedDays     int     `json:"updated_days"`
	BalanceHours    float64 `json:"balance_hours"`
	PayoutBankHours float64 `json:"payout_bank_hours"`
}

func (h *WorkdayHandler) List(w http.ResponseWriter, r *http.Request) {
	employee := middleware.GetEmployeeFromContext(r.Context())

	query := database.GetDB().Where("employee_id = ?", employee.ID)

	// Apply month/year filter
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	if month >= 1 && month <= 12 && year >= 2000 && year <= 2100 {
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		query = query.Where("day >= ? AND day < ?", start, end)
	} else if year >= 2000 && year <= 2100 {
		start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)
		query = query.Where("day >= ? AND day < ?", start, end)
	}

	var days []models.WorkDay
	if err := query.Order("day asc").Find(&days).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load work days", err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (h *WorkdayHandler) Create(w http.ResponseWriter, r *http.Request) {
	employee := middleware.GetEmployeeFromContext(r.Context())

	var req workdayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	day, err := time.Parse("2006-01-02", req.Day)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day, expected YYYY-MM-DD", err)
		return
	}
	if req.PlanHours < 0 || req.PlanHours > 24 {
		writeError(w, http.StatusBadRequest, "plan hours must be between 0 and 24", nil)
		return
	}

	var count int64
	database.GetDB().Model(&models.WorkDay{}).
		Where("employee_id = ? AND day = ?", employee.ID, day).Count(&count)
	if count > 0 {
		writeError(w, http.StatusConflict, "day already logged", nil)
		return
	}

	entry := models.WorkDay{
		EmployeeID:   employee.ID,
		Day:          day,
		Code:         req.Code,
		Kommt1:       req.Kommt1,
		Geht1:        req.Geht1,
		Kommt2:       req.Kommt2,
		Geht2:        req.Geht2,
		Pause:        req.Pause,
		PlanHours:    req.PlanHours,
		HolidayHours: req.HolidayHours,
	}

	if err := h.writeAndReconcile(employee, func(tx *gorm.DB) error {
		return tx.Create(&entry).Error
	}); err != nil {
		respondReconcileError(w, err)
		return
	}

	// reload so the response carries the derived fields
	database.GetDB().First(&entry, entry.ID)
	writeJSON(w, http.StatusCreated, entry)
}

func (h *WorkdayHandler) Update(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.loadWorkday(w, r)
	if !ok {
		return
	}

	var req workdayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Day != "" {
		day, err := time.Parse("2006-01-02", req.Day)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid day, expected YYYY-MM-DD", err)
			return
		}
		entry.Day = day
	}
	if req.PlanHours < 0 || req.PlanHours > 24 {
		writeError(w, http.StatusBadRequest, "plan hours must be between 0 and 24", nil)
		return
	}

	entry.Code = req.Code
	entry.Kommt1 = req.Kommt1
	entry.Geht1 = req.Geht1
	entry.Kommt2 = req.Kommt2
	entry.Geht2 = req.Geht2
	entry.Pause = req.Pause
	entry.PlanHours = req.PlanHours
	entry.HolidayHours = req.HolidayHours

	var employee models.Employee
	if err := database.GetDB().First(&employee, entry.EmployeeID).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load employee", err)
		return
	}

	if err := h.writeAndReconcile(&employee, func(tx *gorm.DB) error {
		return tx.Save(entry).Error
	}); err != nil {
		respondReconcileError(w, err)
		return
	}

	database.GetDB().First(entry, entry.ID)
	writeJSON(w, http.StatusOK, entry)
}

func (h *WorkdayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.loadWorkday(w, r)
	if !ok {
		return
	}

	var employee models.Employee
	if err := database.GetDB().First(&employee, entry.EmployeeID).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load employee", err)
		return
	}

	if err := h.writeAndReconcile(&employee, func(tx *gorm.DB) error {
		return tx.Delete(entry).Error
	}); err != nil {
		respondReconcileError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkdayHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	employee := middleware.GetEmployeeFromContext(r.Context())

	result, err := ReconcileEmployee(database.GetDB(), employee)
	if err != nil {
		respondReconcileError(w, err)
		return
	}

	h.logger.Info("reconciled employee",
		zap.Uint("employee_id", employee.ID),
		zap.Int("updated_days", len(result.UpdatedDays)),
		zap.Float64("balance_hours", result.BalanceHours),
		zap.Float64("payout_bank_hours", result.PayoutBankHours),
	)

	writeJSON(w, http.StatusOK, reconcileSummary{
		UpdatedDays:     len(result.UpdatedDays),
		BalanceHours:    result.BalanceHours,
		PayoutBankHours: result.PayoutBankHours,
	})
}

func (h *WorkdayHandler) Balance(w http.ResponseWriter, r *http.Request) {
	employee := middleware.GetEmployeeFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]float64{
		"balance_hours":     employee.BalanceHours,
		"payout_bank_hours": employee.PayoutBankHours,
	})
}

// writeAndReconcile runs the row mutation and the full reconciliation in one
// transaction so a balance-limit violation rolls the mutation back too.
func (h *WorkdayHandler) writeAndReconcile(employee *models.Employee, mutate func(tx *gorm.DB) error) error {
	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := mutate(tx); err != nil {
			return err
		}
		_, err := ReconcileEmployee(tx, employee)
		return err
	})
}

func (h *WorkdayHandler) loadWorkday(w http.ResponseWriter, r *http.Request) (*models.WorkDay, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "workdayID"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid work day id", err)
		return nil, false
	}

	var entry models.WorkDay
	if err := database.GetDB().First(&entry, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "work day not found", err)
		return nil, false
	}
	return &entry, true
}

func respondReconcileError(w http.ResponseWriter, err error) {
	var limitErr *reconcile.BalanceLimitError
	if errors.As(err, &limitErr) {
		writeError(w, http.StatusUnprocessableEntity, limitErr.Error(), nil)
		return
	}
	writeError(w, http.StatusInternalServerError, "reconciliation failed", err)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"worktime/database"
	"worktime/middleware"
	"worktime/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EmployeeHandler struct {
	logger *zap.Logger
}

func NewEmployeeHandler(logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{logger: logger}
}

type employeeRequest struct {
	StaffNumber  string  `json:"staff_number"`
	FullName     string  `json:"full_name"`
	DepartmentID *uint   `json:"department_id"`
	HourlyRate   string  `json:"hourly_rate"`
	MaxMinus     float64 `json:"max_minus_hours"`
	MaxOvertime  float64 `json:"max_overtime_hours"`
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	var employees []models.Employee
	if err := database.GetDB().Preload("Department").Order("staff_number asc").Find(&employees).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load employees", err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.StaffNumber == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "staff_number and full_name are required", nil)
		return
	}
	if req.MaxMinus < 0 || req.MaxOvertime < 0 {
		writeError(w, http.StatusBadRequest, "balance limits must not be negative", nil)
		return
	}

	rate := decimal.Zero
	if req.HourlyRate != "" {
		var err error
		rate, err = decimal.NewFromString(req.HourlyRate)
		if err != nil || rate.IsNegative() {
			writeError(w, http.StatusBadRequest, "invalid hourly rate", err)
			return
		}
	}

	employee := models.Employee{
		StaffNumber:      req.StaffNumber,
		FullName:         req.FullName,
		DepartmentID:     req.DepartmentID,
		HourlyRate:       rate,
		MaxMinusHours:    req.MaxMinus,
		MaxOvertimeHours: req.MaxOvertime,
	}
	if err := database.GetDB().Create(&employee).Error; err != nil {
		writeError(w, http.StatusConflict, "failed to create employee", err)
		return
	}

	h.logger.Info("employee created", zap.Uint("id", employee.ID), zap.String("staff_number", employee.StaffNumber))
	writeJSON(w, http.StatusCreated, employee)
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	employee := middleware.GetEmployeeFromContext(r.Context())
	writeJSON(w, http.StatusOK, employee)
}

// settingsRequest is a partial update: fields left out of the body keep
// their current values.
type settingsRequest struct {
	DepartmentID *uint    `json:"department_id"`
	HourlyRate   string   `json:"hourly_rate"`
	MaxMinus     *float64 `json:"max_minus_hours"`
	MaxOvertime  *float64 `json:"max_overtime_hours"`
}

// UpdateSettings changes the balance limits and hourly rate. Tightening the
// minus-hours limit can make the existing history unreconcilable, so the
// update and a full re-run share one transaction.
func (h *EmployeeHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	employee := middleware.GetEmployeeFromContext(r.Context())

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if (req.MaxMinus != nil && *req.MaxMinus < 0) || (req.MaxOvertime != nil && *req.MaxOvertime < 0) {
		writeError(w, http.StatusBadRequest, "balance limits must not be negative", nil)
		return
	}

	if req.MaxMinus != nil {
		employee.MaxMinusHours = *req.MaxMinus
	}
	if req.MaxOvertime != nil {
		employee.MaxOvertimeHours = *req.MaxOvertime
	}
	if req.HourlyRate != "" {
		rate, err := decimal.NewFromString(req.HourlyRate)
		if err != nil || rate.IsNegative() {
			writeError(w, http.StatusBadRequest, "invalid hourly rate", err)
			return
		}
		employee.HourlyRate = rate
	}
	if req.DepartmentID != nil {
		employee.DepartmentID = req.DepartmentID
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(employee).Error; err != nil {
			return err
		}
		_, err := ReconcileEmployee(tx, employee)
		return err
	})
	if err != nil {
		respondReconcileError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, employee)
}

type weeklyPlanRequest struct {
	// Hours per weekday, Sunday first, matching time.Weekday.
	Hours [7]float64 `json:"hours"`
}

func (h *EmployeeHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	employee := middleware.GetEmployeeFromContext(r.Context())

	var plans []models.ShiftPlan
	if err := database.GetDB().Where("employee_id = ?", employee.ID).Find(&plans).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load shift plan", err)
		return
	}

	var resp weeklyPlanRequest
	for _, p := range plans {
		if p.Weekday >= 0 && p.Weekday < 7 {
			resp.Hours[p.Weekday] = p.Hours
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EmployeeHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	employee := middleware.GetEmployeeFromContext(r.Context())

	var req weeklyPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	for _, hours := range req.Hours {
		if hours < 0 || hours > 24 {
			writeError(w, http.StatusBadRequest, "plan hours must be between 0 and 24", nil)
			return
		}
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employee.ID).Delete(&models.ShiftPlan{}).Error; err != nil {
			return err
		}
		for weekday, hours := range req.Hours {
			plan := models.ShiftPlan{EmployeeID: employee.ID, Weekday: weekday, Hours: hours}
			if err := tx.Create(&plan).Error; err != nil {
				return err
			}
		}
		_, err := ReconcileEmployee(tx, employee)
		return err
	})
	if err != nil {
		respondReconcileError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

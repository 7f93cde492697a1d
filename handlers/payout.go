package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"worktime/database"
	"worktime/middleware"
	"worktime/models"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PayoutHandler struct {
	logger *zap.Logger
}

func NewPayoutHandler(logger *zap.Logger) *PayoutHandler {
	return &PayoutHandler{logger: logger}
}

type payoutRequestBody struct {
	Hours string `json:"hours"`
}

func (h *PayoutHandler) List(w http.ResponseWriter, r *http.Request) {
	employee := middleware.GetEmployeeFromContext(r.Context())

	var requests []models.PayoutRequest
	if err := database.GetDB().Where("employee_id = ?", employee.ID).
		Order("created_at desc").Find(&requests).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load payout requests", err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// Create files a cash-out request against the employee's payout bank. The
// hours are priced with the employee's current hourly rate at submission.
func (h *PayoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	employee := middleware.GetEmployeeFromContext(r.Context())

	var body payoutRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	hours, err := decimal.NewFromString(body.Hours)
	if err != nil || !hours.IsPositive() {
		writeError(w, http.StatusBadRequest, "hours must be a positive decimal", err)
		return
	}

	bank := decimal.NewFromFloat(employee.PayoutBankHours)
	if hours.GreaterThan(bank) {
		writeError(w, http.StatusUnprocessableEntity, "requested hours exceed the payout bank", nil)
		return
	}

	request := models.PayoutRequest{
		Reference:  models.NewPayoutReference(),
		EmployeeID: employee.ID,
		Hours:      hours,
		Amount:     hours.Mul(employee.HourlyRate).Round(2),
		Status:     models.PayoutPending,
	}
	if err := database.GetDB().Create(&request).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create payout request", err)
		return
	}

	h.logger.Info("payout requested",
		zap.Uint("employee_id", employee.ID),
		zap.String("reference", request.Reference),
		zap.String("hours", hours.String()),
	)
	writeJSON(w, http.StatusCreated, request)
}

// Approve deducts the requested hours from the payout bank. The check runs
// again inside the transaction: the bank may have shrunk since submission.
func (h *PayoutHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, models.PayoutApproved)
}

func (h *PayoutHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, models.PayoutRejected)
}

func (h *PayoutHandler) resolve(w http.ResponseWriter, r *http.Request, status models.PayoutStatus) {
	id, err := strconv.ParseUint(chi.URLParam(r, "payoutID"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payout id", err)
		return
	}

	var request models.PayoutRequest
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, id).Error; err != nil {
			return err
		}
		if !request.IsPending() {
			return errAlreadyResolved
		}

		if status == models.PayoutApproved {
			var employee models.Employee
			if err := tx.First(&employee, request.EmployeeID).Error; err != nil {
				return err
			}
			bank := decimal.NewFromFloat(employee.PayoutBankHours)
			if request.Hours.GreaterThan(bank) {
				return errBankTooSmall
			}
			remaining, _ := bank.Sub(request.Hours).Float64()
			if err := tx.Model(&employee).Update("payout_bank_hours", remaining).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		request.Status = status
		request.ResolvedAt = &now
		return tx.Save(&request).Error
	})
	if err != nil {
		switch err {
		case errAlreadyResolved:
			writeError(w, http.StatusConflict, "payout request already resolved", nil)
		case errBankTooSmall:
			writeError(w, http.StatusUnprocessableEntity, "payout bank no longer covers the requested hours", nil)
		case gorm.ErrRecordNotFound:
			writeError(w, http.StatusNotFound, "payout request not found", nil)
		default:
			writeError(w, http.StatusInternalServerError, "failed to resolve payout request", err)
		}
		return
	}

	h.logger.Info("payout resolved",
		zap.String("reference", request.Reference),
		zap.String("status", string(status)),
	)
	writeJSON(w, http.StatusOK, request)
}

var (
	errAlreadyResolved = errString("payout request already resolved")
	errBankTooSmall    = errString("payout bank too small")
)

type errString string

func (e errString) Error() string { return string(e) }

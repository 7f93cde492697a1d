package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"worktime/database"
	"worktime/models"

	"go.uber.org/zap"
)

type ExportHandler struct {
	logger *zap.Logger
}

func NewExportHandler(logger *zap.Logger) *ExportHandler {
	return &ExportHandler{logger: logger}
}

// ExportCSV writes the reconciled month as CSV, optionally filtered by
// department.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month", err)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		writeError(w, http.StatusBadRequest, "invalid year", err)
		return
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := database.GetDB().Preload("Employee").Preload("Employee.Department").
		Where("work_days.day >= ? AND work_days.day < ?", start, end)

	// Apply department filter
	if depStr := r.URL.Query().Get("department_id"); depStr != "" {
		if did, err := strconv.ParseUint(depStr, 10, 32); err == nil && did > 0 {
			query = query.Joins("JOIN employees ON employees.id = work_days.employee_id").
				Where("employees.department_id = ?", did)
		}
	}

	var days []models.WorkDay
	if err := query.Order("work_days.day asc, work_days.employee_id asc").Find(&days).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load work days", err)
		return
	}

	filename := fmt.Sprintf("worktime_%d_%02d.csv", year, month)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{
		"Employee", "Department", "Date", "Code",
		"Plan", "Raw", "Pause", "Net",
		"Overtime Delta", "Forced Overflow",
		"Sick", "Child Sick", "Short Work", "Vacation", "Holiday",
	})

	for _, day := range days {
		name := ""
		department := ""
		if day.Employee != nil {
			name = day.Employee.DisplayName()
			if day.Employee.Department != nil {
				department = day.Employee.Department.Name
			}
		}
		writer.Write([]string{
			name,
			department,
			day.Day.Format("2006-01-02"),
			day.Code,
			fmt.Sprintf("%.2f", day.PlanHours),
			fmt.Sprintf("%.2f", day.RawHours),
			fmt.Sprintf("%.2f", day.PauseHours),
			fmt.Sprintf("%.2f", day.NetHours),
			fmt.Sprintf("%.2f", day.OvertimeDelta),
			fmt.Sprintf("%.2f", day.ForcedOverflow),
			fmt.Sprintf("%.2f", day.SickHours),
			fmt.Sprintf("%.2f", day.ChildSickHours),
			fmt.Sprintf("%.2f", day.ShortWorkHours),
			fmt.Sprintf("%.2f", day.VacationHours),
			fmt.Sprintf("%.2f", day.HolidayHours),
		})
	}
}

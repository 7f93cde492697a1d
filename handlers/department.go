package handlers

import (
	"encoding/json"
	"net/http"

	"worktime/database"
	"worktime/models"

	"go.uber.org/zap"
)

type DepartmentHandler struct {
	logger *zap.Logger
}

func NewDepartmentHandler(logger *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{logger: logger}
}

func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	var departments []models.Department
	if err := database.GetDB().Order("name asc").Find(&departments).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load departments", err)
		return
	}
	writeJSON(w, http.StatusOK, departments)
}

func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", err)
		return
	}

	department := models.Department{Name: req.Name}
	if err := database.GetDB().Create(&department).Error; err != nil {
		writeError(w, http.StatusConflict, "failed to create department", err)
		return
	}
	writeJSON(w, http.StatusCreated, department)
}

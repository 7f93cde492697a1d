package middleware

import (
	"context"
	"net/http"
	"strconv"

	"worktime/database"
	"worktime/models"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const EmployeeContextKey contextKey = "employee"

// EmployeeCtx loads the employee addressed by the {employeeID} URL parameter
// into the request context. Unknown ids end the request with 404.
func EmployeeCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idStr := chi.URLParam(r, "employeeID")
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			http.Error(w, "invalid employee id", http.StatusBadRequest)
			return
		}

		var employee models.Employee
		if err := database.GetDB().First(&employee, id).Error; err != nil {
			http.Error(w, "employee not found", http.StatusNotFound)
			return
		}

		ctx := context.WithValue(r.Context(), EmployeeContextKey, &employee)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetEmployeeFromContext(ctx context.Context) *models.Employee {
	employee, ok := ctx.Value(EmployeeContextKey).(*models.Employee)
	if !ok {
		return nil
	}
	return employee
}

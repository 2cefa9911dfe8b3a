package middleware

import (
	"net/http"

	"github.com/gajihub/payroll-backend-go/internal/domain/user"
	"github.com/gajihub/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequirePayrollManager requires admin or hr role
func RequirePayrollManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrPayrollRoleNeeded)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrPayrollRoleNeeded)
			return
		}

		if !user.Role(roleStr).CanManagePayroll() {
			response.HandleError(w, user.ErrPayrollRoleNeeded)
			return
		}

		next.ServeHTTP(w, r)
	})
}

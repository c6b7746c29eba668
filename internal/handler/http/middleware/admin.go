package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kargo-erp/hr-backend-go/internal/domain/auth"
	"github.com/kargo-erp/hr-backend-go/internal/domain/user"
	"github.com/kargo-erp/hr-backend-go/internal/handler/http/response"
)

// AdminOnly gates management endpoints on the is_admin claim.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if admin, ok := claims["is_admin"].(bool); !ok || !admin {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

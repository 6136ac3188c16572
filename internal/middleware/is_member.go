package middleware

import (
	"net/http"
	"time"

	"github.com/andrevaleby/santamaria-backend/internal/auth"
	"github.com/andrevaleby/santamaria-backend/internal/common"
)

// IsMemberMiddleware gates routes on guild membership. The flag is the
// per-login snapshot carried by the session credential; it is treated as
// authoritative for the session lifetime.
func IsMemberMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			identity, ok := auth.GetIdentity(r.Context())

			// Check membership BEFORE calling next handler
			if !ok || !identity.IsMember {
				common.RespondError(w, time.Now(), nil, "Apenas membros do servidor podem enviar o formulário", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

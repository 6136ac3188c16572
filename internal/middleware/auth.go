package middleware

import (
	"net/http"
	"time"

	"github.com/andrevaleby/santamaria-backend/internal/auth"
	"github.com/andrevaleby/santamaria-backend/internal/common"
)

// SessionCookieName is the cookie carrying the signed session credential
const SessionCookieName = "user"

// AuthMiddleware verifies the session cookie and puts the identity into
// the request context. Absent cookie and bad credential are both 401;
// the response never distinguishes why verification failed.
func AuthMiddleware(issuer *auth.SessionIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				common.RespondError(w, initTime, nil, "Não autenticado", http.StatusUnauthorized)
				return
			}

			identity, err := issuer.Verify(cookie.Value)
			if err != nil {
				common.RespondError(w, initTime, nil, "Token inválido", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

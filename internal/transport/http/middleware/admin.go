package middleware

import (
	"net/http"

	apierrors "github.com/LiteBots/zacharska/internal/errors"
	"github.com/LiteBots/zacharska/internal/session"
)

// RequireAdmin пускает запрос дальше только с валидной админской сессией
// в cookie session.CookieName; иначе — 401 с унифицированным телом.
//
// Выключенный гейт (PIN/секрет не заданы) оставляет маршруты публичными:
// мидлвар становится no-op. Вешается только на мутации — чтение публично всегда.
func RequireAdmin(sessions *session.Manager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions == nil || !sessions.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(session.CookieName)
			if err != nil {
				apierrors.WriteError(w, r, session.ErrInvalidToken)
				return
			}

			if err := sessions.Validate(cookie.Value); err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

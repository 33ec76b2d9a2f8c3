package handlers

import (
	"net/http"

	apierrors "github.com/LiteBots/zacharska/internal/errors"
	"github.com/LiteBots/zacharska/internal/service"
	"github.com/LiteBots/zacharska/internal/session"
)

// loginRequest — тело POST /admin/login.
type loginRequest struct {
	PIN string `json:"pin"`
}

// meResponse — тело GET /admin/me.
type meResponse struct {
	Authed bool `json:"authed"`
}

// AdminLogin проверяет PIN и ставит сессионную cookie.
//
// Ошибки: 400 — нечитаемое тело или PIN неверного формата; 401 — PIN не
// совпал; 500 — гейт не сконфигурирован.
func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if h.Sessions == nil {
		apierrors.WriteError(w, r, session.ErrNotConfigured)
		return
	}

	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	if !validPIN(in.PIN) {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	token, err := h.Sessions.Login(in.PIN)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.Sessions.TTL().Seconds())))
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// AdminMe сообщает фронту состояние сессии; никогда не ошибается.
// authed=false покрывает и выключенный гейт, и отсутствие/негодность токена.
func (h *Handlers) AdminMe(w http.ResponseWriter, r *http.Request) {
	authed := false

	if h.Sessions != nil && h.Sessions.Enabled() {
		if cookie, err := r.Cookie(session.CookieName); err == nil {
			authed = h.Sessions.Validate(cookie.Value) == nil
		}
	}

	writeJSON(w, http.StatusOK, meResponse{Authed: authed})
}

// AdminLogout снимает сессию: затирает cookie отрицательным MaxAge.
func (h *Handlers) AdminLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// sessionCookie собирает сессионную cookie; maxAge<0 затирает её.
func (h *Handlers) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// validPIN — структурная проверка формата (4–12 цифр, как у ADMIN_PIN
// в конфигурации). Несовпадение значения — отдельная ошибка (401).
func validPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 12 {
		return false
	}

	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// errors стандартизирует ответы об ошибках HTTP-слоя listings-service.
// На вход он принимает ошибку (сервисные sentinel-ошибки, ошибки гейта,
// ошибки валидации конвейера), а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Единственное исключение из правила «безопасных сообщений» —
// *normalize.ValidationError: его текст предназначен клиенту и уходит
// в message без изменений.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/LiteBots/zacharska/internal/normalize"
	"github.com/LiteBots/zacharska/internal/service"
	"github.com/LiteBots/zacharska/internal/session"
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку нижних слоёв в HTTP-статус и унифицированный
// ответ для фронта.
//
// Поведение:
//   - err == nil — это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - *normalize.ValidationError -> 400 с текстом из конвейера;
//   - сервисные sentinel-ошибки -> таблица ниже;
//   - ошибки гейта -> 400/401/500 по причине;
//   - прочее -> 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := base(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base — таблица маппинга ошибок приложения в HTTP/FE-код/сообщение:
//   - валидация конвейера -> 400 (message — текст правила);
//   - service.ErrInvalidArgument -> 400
//   - service.ErrNotFound -> 404
//   - service.ErrConflict -> 409
//   - session.ErrWrongPIN / ErrInvalidToken / ErrTokenExpired -> 401
//   - session.ErrNotConfigured -> 500 (гейт без PIN/секрета — ошибка деплоя)
//   - прочее (включая service.ErrInternal) -> 500/internal
func base(err error) (int, string, string) {
	if err == nil {
		return http.StatusInternalServerError, "internal", "internal error"
	}

	var verr *normalize.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, "invalid_argument", verr.Reason
	}

	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "already_exists", "already exists"
	case errors.Is(err, session.ErrWrongPIN):
		return http.StatusUnauthorized, "unauthenticated", "wrong pin"
	case errors.Is(err, session.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case errors.Is(err, session.ErrTokenExpired):
		return http.StatusUnauthorized, "unauthenticated", "session expired"
	case errors.Is(err, session.ErrNotConfigured):
		return http.StatusInternalServerError, "not_configured", "admin access is not configured"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/LiteBots/zacharska/internal/service"
	"github.com/LiteBots/zacharska/internal/session"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	Service  *service.Service
	Sessions *session.Manager

	// CookieSecure добавляет флаг Secure к сессионной cookie
	// (включается в конфигурации для деплоя за TLS).
	CookieSecure bool
}

func New(svc *service.Service, sessions *session.Manager, cookieSecure bool) *Handlers {
	return &Handlers{Service: svc, Sessions: sessions, CookieSecure: cookieSecure}
}

// okResponse — тело `{"ok":true}` для операций без содержательного ответа.
type okResponse struct {
	OK bool `json:"ok"`
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// decodeRaw читает тело как произвольный JSON-объект — вход конвейера
// нормализации. Пустое тело и `null` эквивалентны пустому объекту:
// решение, чего не хватает, принимает конвейер, а не парсер.
func decodeRaw(r *http.Request) (map[string]any, error) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}

		return nil, err
	}

	return raw, nil
}

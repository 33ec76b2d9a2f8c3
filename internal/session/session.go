// Package session реализует админский гейт: проверку PIN и выпуск/проверку
// подписанных сессионных токенов.
//
// Сессии без состояния: токен — JWT (HS256) с моментом выпуска и сроком
// действия, на сервере ничего не хранится. Админ один, поэтому полезная
// нагрузка не несёт идентичности — только subject-маркер.
package session

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNotConfigured — гейт не сконфигурирован (PIN/секрет не заданы).
	ErrNotConfigured = errors.New("admin access is not configured")
	// ErrWrongPIN — PIN не совпал.
	ErrWrongPIN = errors.New("wrong pin")
	// ErrInvalidToken — токен не разбирается или подпись не сходится.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrTokenExpired — срок действия сессии истёк.
	ErrTokenExpired = errors.New("session token expired")
)

// CookieName — имя cookie, в которой транспортный слой носит токен сессии.
const CookieName = "admin_session"

const subjectAdmin = "admin"

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Manager выпускает и проверяет админские сессии.
//
// Гейт активен, только когда заданы и PIN, и секрет подписи; иначе
// Enabled() == false и операции записи остаются публичными.
type Manager struct {
	pin    string
	secret []byte
	ttl    time.Duration
}

// NewManager собирает менеджер сессий из конфигурации гейта.
func NewManager(pin, secret string, ttl time.Duration) *Manager {
	return &Manager{
		pin:    pin,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Enabled сообщает, сконфигурирован ли гейт.
func (m *Manager) Enabled() bool {
	return m.pin != "" && len(m.secret) > 0
}

// TTL — срок жизни сессии (он же MaxAge cookie).
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Login сверяет PIN за константное время и выпускает сессионный токен.
//
// Ошибки: ErrNotConfigured, ErrWrongPIN; ошибка подписи — как есть.
func (m *Manager) Login(pin string) (string, error) {
	const op = "session/Login"

	if !m.Enabled() {
		return "", fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	if subtle.ConstantTimeCompare([]byte(pin), []byte(m.pin)) != 1 {
		return "", fmt.Errorf("%s: %w", op, ErrWrongPIN)
	}

	return m.issue(time.Now().UTC())
}

// issue подписывает токен с моментом выпуска и сроком действия now+ttl.
func (m *Manager) issue(now time.Time) (string, error) {
	const op = "session/issue"

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectAdmin,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// Validate проверяет подпись и срок действия токена.
// Сравнение подписи внутри библиотеки — за константное время.
//
// Ошибки: ErrNotConfigured, ErrTokenExpired, ErrInvalidToken.
func (m *Manager) Validate(tokenStr string) error {
	const op = "session/Validate"

	if !m.Enabled() {
		return fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.Subject != subjectAdmin {
		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return nil
}

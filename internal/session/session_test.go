package session

// Тесты админского гейта (internal/session).
//
//  Проверяем:
//  - round-trip Login -> Validate при корректном PIN;
//  - ErrWrongPIN и ErrNotConfigured;
//  - истечение срока действия сессии;
//  - отклонение подделанных токенов и токенов с чужим секретом.
//
// Запуск:
//   go test ./internal/session -v -race -count=1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager("246810", "test-secret-at-least-32-bytes-long", 7*24*time.Hour)
}

// Round-trip: Login с верным PIN -> токен проходит Validate.
func TestManager_LoginValidate(t *testing.T) {
	m := newManager(t)
	require.True(t, m.Enabled())

	token, err := m.Login("246810")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, m.Validate(token))
}

// Неверный PIN — ErrWrongPIN, в том числе при другой длине.
func TestManager_WrongPIN(t *testing.T) {
	m := newManager(t)

	_, err := m.Login("000000")
	require.ErrorIs(t, err, ErrWrongPIN)

	_, err = m.Login("24681")
	require.ErrorIs(t, err, ErrWrongPIN)

	_, err = m.Login("")
	require.ErrorIs(t, err, ErrWrongPIN)
}

// Гейт без PIN или секрета не активен: Login и Validate — ErrNotConfigured.
func TestManager_NotConfigured(t *testing.T) {
	cases := []*Manager{
		NewManager("", "secret", time.Hour),
		NewManager("246810", "", time.Hour),
		NewManager("", "", time.Hour),
	}

	for _, m := range cases {
		require.False(t, m.Enabled())

		_, err := m.Login("246810")
		require.ErrorIs(t, err, ErrNotConfigured)

		require.ErrorIs(t, m.Validate("whatever"), ErrNotConfigured)
	}
}

// Истёкшая сессия — ErrTokenExpired (выпуск задним числом за пределами TTL).
func TestManager_Expired(t *testing.T) {
	m := newManager(t)

	token, err := m.issue(time.Now().UTC().Add(-8 * 24 * time.Hour))
	require.NoError(t, err)

	require.ErrorIs(t, m.Validate(token), ErrTokenExpired)
}

// Подделка: битый токен и токен, подписанный другим секретом.
func TestManager_InvalidToken(t *testing.T) {
	m := newManager(t)

	require.ErrorIs(t, m.Validate("not-a-token"), ErrInvalidToken)

	token, err := m.Login("246810")
	require.NoError(t, err)
	require.ErrorIs(t, m.Validate(token+"x"), ErrInvalidToken)

	other := NewManager("246810", "another-secret-with-enough-length!", time.Hour)
	foreign, err := other.Login("246810")
	require.NoError(t, err)
	require.ErrorIs(t, m.Validate(foreign), ErrInvalidToken)
}

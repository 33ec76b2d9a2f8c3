// service содержит бизнес-логику listings-сервиса.
package service

import (
	"errors"

	"github.com/LiteBots/zacharska/internal/storage"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности идентификатора.
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInternal — внутренняя ошибка (сторадж/БД/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// Service — бизнес-логика работы с объявлениями.
//
// Ошибки валидации конвейера (*normalize.ValidationError) пробрасываются
// по цепочке без перекодирования: их текст предназначен клиенту.
type Service struct {
	storage storage.Storage
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage) *Service {
	return &Service{
		storage: storage,
	}
}

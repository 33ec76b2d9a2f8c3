package storage

import (
	"context"
	"errors"

	"github.com/LiteBots/zacharska/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности идентификатора.
	ErrConflict = errors.New("conflict")
)

// Storage описывает операции над объявлениями.
//
// Контракт един для обеих реализаций (файловой и документной); различия
// в деградации при сбоях описаны у конкретных методов.
type Storage interface {
	// ListListings возвращает все объявления, отсортированные по created_at DESC
	// (при равенстве — стабильный порядок вставки).
	// Файловая реализация при сбое чтения отдаёт пустую коллекцию (self-heal),
	// документная — возвращает ошибку.
	ListListings(ctx context.Context) ([]models.Listing, error)

	// ListingByID возвращает объявление по идентификатору.
	// Если запись не найдена — ErrNotFound.
	ListingByID(ctx context.Context, id string) (*models.Listing, error)

	// InsertListing сохраняет уже нормализованное объявление и возвращает
	// итоговую запись. Файловая реализация при коллизии идентификатора
	// выпускает новый UUID; документная возвращает ErrConflict.
	InsertListing(ctx context.Context, listing models.Listing) (*models.Listing, error)

	// UpdateListing накладывает patch на существующую запись, повторно
	// прогоняет результат через нормализатор и сохраняет его.
	// Идентификатор и created_at при слиянии не изменяются.
	// Если запись не найдена — ErrNotFound; при нарушении валидации —
	// *normalize.ValidationError, запись остаётся нетронутой.
	UpdateListing(ctx context.Context, id string, patch map[string]any) (*models.Listing, error)

	// DeleteListing удаляет запись по идентификатору.
	// Если запись не найдена — ErrNotFound.
	DeleteListing(ctx context.Context, id string) error

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}

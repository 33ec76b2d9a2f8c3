package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LiteBots/zacharska/internal/models"
	"github.com/LiteBots/zacharska/internal/normalize"
	"github.com/LiteBots/zacharska/internal/pkg/log"
	"github.com/LiteBots/zacharska/internal/storage"
)

// ListListings — все объявления, новые первыми.
//
// Поведение/ошибки:
//   - ErrInternal — ошибка хранилища (файловая реализация чтение не роняет,
//     документная — может).
func (s *Service) ListListings(ctx context.Context) ([]models.Listing, error) {
	const op = "service/listings/ListListings"

	lg := log.From(ctx).With("op", op)

	items, err := s.storage.ListListings(ctx)
	if err != nil {
		lg.Error("storage error on ListListings", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return items, nil
}

// ListingByID — объявление по идентификатору.
//
// Валидация:
//   - id не должен быть пустым.
//
// Поведение/ошибки:
//   - ErrNotFound — если объявление не найдено;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) ListingByID(ctx context.Context, id string) (*models.Listing, error) {
	const op = "service/listings/ListingByID"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.storage.ListingByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("listing not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on ListingByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// CreateListing — бизнес-операция создания объявления.
//
// Вход — сырая карта полей запроса; конвейер нормализации приводит типы,
// выпускает идентификатор и метки времени, валидирует результат.
//
// Поведение/ошибки:
//   - *normalize.ValidationError — нарушение правил валидации
//     (текст сообщения уходит клиенту без изменений);
//   - ErrConflict — конфликт идентификатора в документном хранилище;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) CreateListing(ctx context.Context, raw map[string]any) (*models.Listing, error) {
	const op = "service/listings/CreateListing"

	lg := log.From(ctx).With("op", op)

	listing, err := normalize.Listing(raw, false, time.Now().UTC())
	if err != nil {
		lg.Warn("validation failed", "reason", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.storage.InsertListing(ctx, listing)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			lg.Warn("conflict")
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		default:
			lg.Error("storage error on InsertListing", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// UpdateListing — частичное обновление: patch сливается с текущей записью
// на уровне хранилища, результат повторно нормализуется.
//
// Валидация:
//   - id не должен быть пустым; nil-patch трактуется как пустой.
//
// Поведение/ошибки:
//   - ErrNotFound — если объявление не найдено;
//   - *normalize.ValidationError — слитая запись не прошла валидацию;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) UpdateListing(ctx context.Context, id string, patch map[string]any) (*models.Listing, error) {
	const op = "service/listings/UpdateListing"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if patch == nil {
		patch = map[string]any{}
	}

	result, err := s.storage.UpdateListing(ctx, id, patch)
	if err != nil {
		var verr *normalize.ValidationError

		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("listing not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.As(err, &verr):
			lg.Warn("validation failed", "reason", verr.Reason)
			return nil, fmt.Errorf("%s: %w", op, verr)
		default:
			lg.Error("storage error on UpdateListing", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// DeleteListing — окончательное удаление объявления по идентификатору.
//
// Валидация:
//   - id не должен быть пустым.
//
// Поведение/ошибки:
//   - ErrNotFound — если объявление не найдено;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) DeleteListing(ctx context.Context, id string) error {
	const op = "service/listings/DeleteListing"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.DeleteListing(ctx, id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("listing not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on DeleteListing", "err", err)
			return fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return nil
}

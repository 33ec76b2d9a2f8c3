// Package file реализует файловое хранилище объявлений: весь набор данных —
// один JSON-документ {"listings":[...]} на диске.
//
// Модель согласованности намеренно простая: каждая операция записи читает
// документ целиком, модифицирует его и атомарно подменяет файл (временный
// файл в том же каталоге + rename). Межпроцессных и внутрипроцессных
// блокировок нет; при конкурентных записях побеждает последняя. Читатель в
// любой момент видит либо старую, либо новую версию документа целиком.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/LiteBots/zacharska/internal/models"
	"github.com/LiteBots/zacharska/internal/normalize"
	"github.com/LiteBots/zacharska/internal/pkg/log"
	"github.com/LiteBots/zacharska/internal/storage"
)

// document — раскладка файла на диске.
type document struct {
	Listings []models.Listing `json:"listings"`
}

func (d document) hasID(id string) bool {
	for i := range d.Listings {
		if d.Listings[i].ID == id {
			return true
		}
	}

	return false
}

// File — файловое хранилище объявлений.
type File struct {
	path string
}

// New готовит хранилище: проверяет путь и создаёт родительский каталог.
// Сам файл не создаётся — отсутствие файла эквивалентно пустой коллекции.
func New(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("file: empty path")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("file: mkdir %s: %w", dir, err)
		}
	}

	return &File{path: path}, nil
}

// Close — файловому хранилищу нечего освобождать.
func (f *File) Close(_ context.Context) error {
	return nil
}

// load читает документ с диска. Отсутствующий или повреждённый файл
// трактуется как пустая коллекция (self-heal): чтение не падает, а первая
// успешная запись перезапишет файл корректным содержимым.
func (f *File) load(ctx context.Context) document {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.From(ctx).Warn("listings_file_unreadable", "path", f.path, "err", err)
		}

		return document{}
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.From(ctx).Warn("listings_file_corrupted", "path", f.path, "err", err)

		return document{}
	}

	return doc
}

// save атомарно подменяет файл: запись во временный файл в том же каталоге,
// затем rename поверх целевого пути.
func (f *File) save(doc document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".listings-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("write temp: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("close temp: %w", err)
	}

	// CreateTemp выдаёт 0600 — выравниваем права под обычный файл данных.
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("chmod temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// ListListings возвращает все объявления, отсортированные по created_at DESC.
// Сортировка стабильная: при равных created_at сохраняется порядок вставки.
// Сбои чтения не всплывают — коллекция в худшем случае пуста.
func (f *File) ListListings(ctx context.Context) ([]models.Listing, error) {
	doc := f.load(ctx)

	out := make([]models.Listing, len(doc.Listings))
	copy(out, doc.Listings)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})

	return out, nil
}

// ListingByID возвращает объявление по идентификатору.
// Если запись не найдена — storage.ErrNotFound.
func (f *File) ListingByID(ctx context.Context, id string) (*models.Listing, error) {
	const op = "storage/file/ListingByID"

	doc := f.load(ctx)
	for i := range doc.Listings {
		if doc.Listings[i].ID == id {
			listing := doc.Listings[i]

			return &listing, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// InsertListing добавляет запись в конец документа. При коллизии
// идентификатора выпускается новый UUID — клиентский id не является
// обещанием, итоговая запись возвращается вызывающему.
func (f *File) InsertListing(ctx context.Context, listing models.Listing) (*models.Listing, error) {
	const op = "storage/file/InsertListing"

	doc := f.load(ctx)
	for doc.hasID(listing.ID) {
		listing.ID = uuid.NewString()
	}

	doc.Listings = append(doc.Listings, listing)
	if err := f.save(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &listing, nil
}

// UpdateListing накладывает patch на существующую запись и повторно
// прогоняет результат через нормализатор. Идентификатор и created_at
// закрепляются слиянием и не меняются. При нарушении валидации файл
// остаётся нетронутым, наружу уходит *normalize.ValidationError.
func (f *File) UpdateListing(ctx context.Context, id string, patch map[string]any) (*models.Listing, error) {
	const op = "storage/file/UpdateListing"

	doc := f.load(ctx)

	idx := -1
	for i := range doc.Listings {
		if doc.Listings[i].ID == id {
			idx = i
			break
		}
	}

	if idx < 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	merged := normalize.Merge(doc.Listings[idx], patch)
	updated, err := normalize.Listing(merged, true, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	doc.Listings[idx] = updated
	if err := f.save(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &updated, nil
}

// DeleteListing удаляет запись по идентификатору.
// Если запись не найдена — storage.ErrNotFound, документ не перезаписывается.
func (f *File) DeleteListing(ctx context.Context, id string) error {
	const op = "storage/file/DeleteListing"

	doc := f.load(ctx)

	kept := make([]models.Listing, 0, len(doc.Listings))
	for i := range doc.Listings {
		if doc.Listings[i].ID != id {
			kept = append(kept, doc.Listings[i])
		}
	}

	if len(kept) == len(doc.Listings) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	doc.Listings = kept
	if err := f.save(doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

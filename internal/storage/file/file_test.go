package file

// Тесты файлового хранилища (internal/storage/file).
//
//  Проверяем:
//  - round-trip вставки/чтения и сохранность полей;
//  - сортировку created_at DESC при listAll;
//  - перевыпуск идентификатора при коллизии;
//  - слияние и повторную нормализацию при update (включая отказ валидации);
//  - self-heal при отсутствующем/повреждённом файле;
//  - атомарность записи (после операций в каталоге нет временных файлов).
//
// Запуск:
//   go test ./internal/storage/file -v -race -count=1

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LiteBots/zacharska/internal/models"
	"github.com/LiteBots/zacharska/internal/normalize"
	"github.com/LiteBots/zacharska/internal/storage"
)

func newStore(t *testing.T) *File {
	t.Helper()

	st, err := New(filepath.Join(t.TempDir(), "data", "listings.json"))
	require.NoError(t, err)

	return st
}

// mkListing — уже нормализованная запись с управляемыми id/created_at.
func mkListing(id string, createdAt int64) models.Listing {
	return models.Listing{
		ID:          id,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
		Title:       "Mieszkanie w centrum",
		Type:        "mieszkanie",
		City:        "Gdynia",
		Price:       350000,
		Area:        48,
		Rooms:       2,
		Description: "Dwa pokoje przy samym deptaku.",
		Images:      []string{},
	}
}

// Round-trip: вставленная запись читается назад со всеми полями.
func TestFile_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	in := mkListing("l-1", 100)
	in.Floor = "parter"
	in.Images = []string{"a.jpg", "b.jpg"}
	in.Image = "a.jpg"

	saved, err := st.InsertListing(ctx, in)
	require.NoError(t, err)
	require.Equal(t, in, *saved)

	got, err := st.ListingByID(ctx, "l-1")
	require.NoError(t, err)
	require.Equal(t, in, *got)
}

// listAll: created_at DESC независимо от порядка вставки.
func TestFile_ListOrder(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	for _, ts := range []int64{100, 300, 200} {
		_, err := st.InsertListing(ctx, mkListing(fmt.Sprintf("l-%d", ts), ts))
		require.NoError(t, err)
	}

	got, err := st.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []int64{300, 200, 100}, []int64{got[0].CreatedAt, got[1].CreatedAt, got[2].CreatedAt})
}

// Коллизия идентификаторов: вторая вставка с тем же id получает новый UUID,
// обе записи остаются в коллекции.
func TestFile_InsertCollision(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	first, err := st.InsertListing(ctx, mkListing("dup", 100))
	require.NoError(t, err)

	second, err := st.InsertListing(ctx, mkListing("dup", 200))
	require.NoError(t, err)

	require.Equal(t, "dup", first.ID)
	require.NotEqual(t, first.ID, second.ID)
	require.NotEmpty(t, second.ID)

	all, err := st.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

// Update: patch сливается с записью, id/created_at неизменны, updated_at
// растёт, результат персистентен (виден через новый экземпляр хранилища).
func TestFile_Update(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	_, err := st.InsertListing(ctx, mkListing("l-1", 100))
	require.NoError(t, err)

	updated, err := st.UpdateListing(ctx, "l-1", map[string]any{
		"city":  "Sopot",
		"price": float64(420000),
	})
	require.NoError(t, err)
	require.Equal(t, "l-1", updated.ID)
	require.Equal(t, int64(100), updated.CreatedAt)
	require.Equal(t, "Sopot", updated.City)
	require.Equal(t, float64(420000), updated.Price)
	require.Equal(t, "Mieszkanie w centrum", updated.Title)
	require.Greater(t, updated.UpdatedAt, int64(100))

	reopened, err := New(st.path)
	require.NoError(t, err)

	got, err := reopened.ListingByID(ctx, "l-1")
	require.NoError(t, err)
	require.Equal(t, *updated, *got)
}

// Update: невалидный patch отклоняется, запись на диске не меняется.
func TestFile_Update_Validation(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	_, err := st.InsertListing(ctx, mkListing("l-1", 100))
	require.NoError(t, err)

	_, err = st.UpdateListing(ctx, "l-1", map[string]any{"title": "x"})
	require.EqualError(t, err, "storage/file/UpdateListing: Title too short")

	var verr *normalize.ValidationError
	require.ErrorAs(t, err, &verr)

	got, err := st.ListingByID(ctx, "l-1")
	require.NoError(t, err)
	require.Equal(t, "Mieszkanie w centrum", got.Title)
	require.Equal(t, int64(100), got.UpdatedAt)
}

// Update/Delete несуществующего id — ErrNotFound, коллекция не меняется.
func TestFile_NotFound(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	_, err := st.InsertListing(ctx, mkListing("l-1", 100))
	require.NoError(t, err)

	_, err = st.UpdateListing(ctx, "ghost", map[string]any{"city": "Sopot"})
	require.ErrorIs(t, err, storage.ErrNotFound)

	err = st.DeleteListing(ctx, "ghost")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.ListingByID(ctx, "ghost")
	require.ErrorIs(t, err, storage.ErrNotFound)

	all, err := st.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

// Delete: запись удаляется окончательно.
func TestFile_Delete(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	_, err := st.InsertListing(ctx, mkListing("l-1", 100))
	require.NoError(t, err)
	_, err = st.InsertListing(ctx, mkListing("l-2", 200))
	require.NoError(t, err)

	require.NoError(t, st.DeleteListing(ctx, "l-1"))

	_, err = st.ListingByID(ctx, "l-1")
	require.ErrorIs(t, err, storage.ErrNotFound)

	all, err := st.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "l-2", all[0].ID)
}

// Self-heal: отсутствующий и повреждённый файл читаются как пустая
// коллекция; следующая запись восстанавливает корректный документ.
func TestFile_SelfHeal(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	all, err := st.ListListings(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	require.NoError(t, os.WriteFile(st.path, []byte("{broken"), 0o644))

	all, err = st.ListListings(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	_, err = st.InsertListing(ctx, mkListing("l-1", 100))
	require.NoError(t, err)

	all, err = st.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

// Атомарность: после серии операций в каталоге ровно один файл данных,
// временных файлов не остаётся.
func TestFile_NoTempLeftovers(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	_, err := st.InsertListing(ctx, mkListing("l-1", 100))
	require.NoError(t, err)
	_, err = st.UpdateListing(ctx, "l-1", map[string]any{"city": "Sopot"})
	require.NoError(t, err)
	require.NoError(t, st.DeleteListing(ctx, "l-1"))

	entries, err := os.ReadDir(filepath.Dir(st.path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, filepath.Base(st.path), entries[0].Name())
}

package mongo

// Тесты документного хранилища (internal/storage/mongo).
//
// Юнит-часть (databaseFromURI) выполняется всегда; интеграционные тесты
// поднимают MongoDB в testcontainers и запускаются только при
// GO_TEST_INTEGRATION=1 — без переменной они скипаются, а не падают.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/mongo -v -count=1

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/LiteBots/zacharska/internal/config"
	"github.com/LiteBots/zacharska/internal/models"
	"github.com/LiteBots/zacharska/internal/normalize"
	"github.com/LiteBots/zacharska/internal/storage"
)

// testTimeout — общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain поднимает MongoDB в контейнере один раз на весь пакет.
// Адрес контейнера прокидывается через ENV DATABASE_URL; каждый тест
// работает в собственной БД с уникальным именем (см. mustNewMongo).
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
	}

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	_ = os.Setenv("DATABASE_URL", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

// mustNewMongo подключается к отдельной тестовой БД и регистрирует очистку.
// Без GO_TEST_INTEGRATION тест скипается.
func mustNewMongo(t *testing.T) *Mongo {
	t.Helper()

	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("set GO_TEST_INTEGRATION=1 to run MongoDB integration tests")
	}

	baseURL := os.Getenv("DATABASE_URL")
	if baseURL == "" {
		baseURL = "mongodb://localhost:27017"
	}

	cfg := config.MongoConfig{
		URL: baseURL + "/listings_test_" + uuid.NewString(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	m, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("cannot connect to MongoDB in container: %v (DATABASE_URL=%s)", err, cfg.URL)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})

	return m
}

// mkListing — нормализованная запись с управляемыми id/created_at.
func mkListing(id string, createdAt int64) models.Listing {
	return models.Listing{
		ID:          id,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
		Title:       "Kawalerka przy parku",
		Type:        "mieszkanie",
		City:        "Gdańsk",
		Price:       289000,
		Area:        31.5,
		Rooms:       1,
		Description: "Jasna kawalerka po remoncie, od zaraz.",
		Images:      []string{},
	}
}

// databaseFromURI: имя БД из пути URI, иначе дефолт.
func TestDatabaseFromURI(t *testing.T) {
	require.Equal(t, "listings_prod", databaseFromURI("mongodb://db:27017/listings_prod"))
	require.Equal(t, defaultDBName, databaseFromURI("mongodb://db:27017"))
	require.Equal(t, defaultDBName, databaseFromURI("mongodb://db:27017/"))
}

// Round-trip вставки/чтения, включая floor и images.
func TestMongo_InsertAndGet(t *testing.T) {
	m := mustNewMongo(t)
	ctx := context.Background()

	in := mkListing("l-1", 100)
	in.Floor = "parter"
	in.Images = []string{"a.jpg", "b.jpg"}
	in.Image = "a.jpg"

	saved, err := m.InsertListing(ctx, in)
	require.NoError(t, err)
	require.Equal(t, in.ID, saved.ID)

	got, err := m.ListingByID(ctx, "l-1")
	require.NoError(t, err)
	require.Equal(t, in.Title, got.Title)
	require.Equal(t, in.CreatedAt, got.CreatedAt)
	require.Equal(t, in.Images, got.Images)
	require.Equal(t, "parter", got.Floor)
}

// Повторная вставка того же _id — storage.ErrConflict.
func TestMongo_InsertConflict(t *testing.T) {
	m := mustNewMongo(t)
	ctx := context.Background()

	_, err := m.InsertListing(ctx, mkListing("dup", 100))
	require.NoError(t, err)

	_, err = m.InsertListing(ctx, mkListing("dup", 200))
	require.ErrorIs(t, err, storage.ErrConflict)
}

// listAll: created_at DESC независимо от порядка вставки.
func TestMongo_ListOrder(t *testing.T) {
	m := mustNewMongo(t)
	ctx := context.Background()

	for _, ts := range []int64{100, 300, 200} {
		_, err := m.InsertListing(ctx, mkListing(fmt.Sprintf("l-%d", ts), ts))
		require.NoError(t, err)
	}

	got, err := m.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []int64{300, 200, 100}, []int64{got[0].CreatedAt, got[1].CreatedAt, got[2].CreatedAt})
}

// Update: слияние с повторной нормализацией, id/created_at неизменны.
func TestMongo_Update(t *testing.T) {
	m := mustNewMongo(t)
	ctx := context.Background()

	_, err := m.InsertListing(ctx, mkListing("l-1", 100))
	require.NoError(t, err)

	updated, err := m.UpdateListing(ctx, "l-1", map[string]any{
		"city":  "Sopot",
		"rooms": float64(2),
	})
	require.NoError(t, err)
	require.Equal(t, "l-1", updated.ID)
	require.Equal(t, int64(100), updated.CreatedAt)
	require.Equal(t, "Sopot", updated.City)
	require.Equal(t, float64(2), updated.Rooms)
	require.Greater(t, updated.UpdatedAt, int64(100))

	got, err := m.ListingByID(ctx, "l-1")
	require.NoError(t, err)
	require.Equal(t, "Sopot", got.City)
}

// Update: невалидный patch — *normalize.ValidationError, запись не меняется.
func TestMongo_Update_Validation(t *testing.T) {
	m := mustNewMongo(t)
	ctx := context.Background()

	_, err := m.InsertListing(ctx, mkListing("l-1", 100))
	require.NoError(t, err)

	_, err = m.UpdateListing(ctx, "l-1", map[string]any{"price": float64(-5)})

	var verr *normalize.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Invalid price", verr.Reason)

	got, err := m.ListingByID(ctx, "l-1")
	require.NoError(t, err)
	require.Equal(t, float64(289000), got.Price)
}

// NotFound: update/delete/чтение несуществующего id.
func TestMongo_NotFound(t *testing.T) {
	m := mustNewMongo(t)
	ctx := context.Background()

	_, err := m.ListingByID(ctx, "ghost")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = m.UpdateListing(ctx, "ghost", map[string]any{"city": "Sopot"})
	require.ErrorIs(t, err, storage.ErrNotFound)

	err = m.DeleteListing(ctx, "ghost")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// Delete: запись удаляется окончательно.
func TestMongo_Delete(t *testing.T) {
	m := mustNewMongo(t)
	ctx := context.Background()

	_, err := m.InsertListing(ctx, mkListing("l-1", 100))
	require.NoError(t, err)

	require.NoError(t, m.DeleteListing(ctx, "l-1"))

	_, err = m.ListingByID(ctx, "l-1")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

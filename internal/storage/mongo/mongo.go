// Package mongo реализует документное хранилище объявлений поверх MongoDB.
//
// В отличие от файловой реализации сбои инфраструктуры здесь не маскируются:
// ошибки соединения и запросов поднимаются вызывающему без деградации.
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/LiteBots/zacharska/internal/config"
)

const (
	listingsCollection = "listings"
	defaultDBName      = "listings"
)

// Mongo — тонкий адаптер подключения и коллекции MongoDB.
type Mongo struct {
	client   *mongodriver.Client
	db       *mongodriver.Database
	listings *mongodriver.Collection
}

// New подключается к MongoDB, проверяет соединение и готовит индексы.
func New(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.URL))

	m := &Mongo{
		client:   cli,
		db:       db,
		listings: db.Collection(listingsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создаёт индекс выдачи: created_at DESC (+ _id для
// стабильности порядка при равных метках времени).
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	model := mongodriver.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("created_desc"),
	}

	if _, err := m.listings.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из пути mongodb-URI.
// Если оно отсутствует или не разбирается, возвращается значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}

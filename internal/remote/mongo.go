package remote

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"onhostel/internal/config"
	"onhostel/internal/domain"
	"onhostel/internal/models"
)

// MongoStore -- удаленная документная база поверх MongoDB. Это источник
// истины: локальное зеркало восстанавливается из него при ресинхронизации.
type MongoStore struct {
	client *mongo.Client
	dbName string
}

// NewMongoStore подключается к MongoDB и проверяет соединение.
func NewMongoStore(ctx context.Context, cfg config.MongoConfig) (*MongoStore, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		clientOptions.SetConnectTimeout(time.Duration(cfg.Timeout) * time.Second)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		dbName: cfg.Database,
	}, nil
}

func (s *MongoStore) collection(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

// Upsert записывает документ целиком, последняя запись побеждает.
func (s *MongoStore) Upsert(ctx context.Context, collection, id string, record any) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, record, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete удаляет документ. Отсутствие документа не считается ошибкой:
// повторная доставка задачи удаления должна быть идемпотентной.
func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// FetchSnapshot читает все коллекции подряд. Снимок не атомарен между
// коллекциями, зеркало принимает его как есть.
func (s *MongoStore) FetchSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	snapshot := &domain.Snapshot{TakenAt: time.Now()}

	if err := s.fetchAll(ctx, models.CollectionBookings, &snapshot.Bookings); err != nil {
		return nil, err
	}
	if err := s.fetchAll(ctx, models.CollectionExpenses, &snapshot.Expenses); err != nil {
		return nil, err
	}
	if err := s.fetchAll(ctx, models.CollectionSendero, &snapshot.SenderoRecords); err != nil {
		return nil, err
	}
	if err := s.fetchAll(ctx, models.CollectionBarTxs, &snapshot.BarTxs); err != nil {
		return nil, err
	}
	if err := s.fetchAll(ctx, models.CollectionBarInventory, &snapshot.BarInventory); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (s *MongoStore) fetchAll(ctx context.Context, collection string, out any) error {
	cursor, err := s.collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return nil
}

// Ping проверяет доступность удаленной базы.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close закрывает соединение с MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

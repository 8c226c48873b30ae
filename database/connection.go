package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"maternal-health-backend/config"
)

// ErrNoDatabase is returned by HealthCheck when storage is turned off.
var ErrNoDatabase = errors.New("database disabled")

// Connect establishes database connection based on config. DB_TYPE=none runs
// without storage; chat history is then unavailable.
func Connect(cfg *config.Config, log logrus.FieldLogger) error {
	switch cfg.Database.Type {
	case "mongodb":
		return ConnectMongoDB(cfg, log)
	case "none":
		log.Warn("Database disabled, chat messages will not be stored")
		return nil
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}

// Disconnect closes database connection
func Disconnect(log logrus.FieldLogger) error {
	return DisconnectMongoDB(log)
}

// HealthCheck pings the primary.
func HealthCheck(ctx context.Context) error {
	if mongoClient == nil {
		return ErrNoDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return mongoClient.Ping(ctx, readpref.Primary())
}

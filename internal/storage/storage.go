package storage

import (
	"context"
	"errors"
	"strings"

	"podmatch/internal/model"
)

// ErrNotFound is returned when a record does not exist, regardless of
// backend.
var ErrNotFound = errors.New("record not found")

// Store is the persistence contract shared by the memory, SQLite and
// Postgres backends. Guests and channels are upserted on their natural
// keys (lowercased name, channel ID); analyses are append-only.
type Store interface {
	UpsertGuest(ctx context.Context, g *model.Guest) error
	GetGuestByName(ctx context.Context, name string) (*model.Guest, error)
	ListGuests(ctx context.Context, field, region string, limit int) ([]model.Guest, error)
	SearchGuests(ctx context.Context, query string, limit int) ([]model.GuestSuggestion, error)

	UpsertChannel(ctx context.Context, ch *model.Channel) error
	GetChannel(ctx context.Context, channelID string) (*model.Channel, error)

	InsertAnalysis(ctx context.Context, a *model.Analysis) error
	ListAnalysesByChannel(ctx context.Context, channelID string, limit int) ([]model.Analysis, error)
	ListRecentAnalyses(ctx context.Context, limit int) ([]model.Analysis, error)

	ListTrendingTopics(ctx context.Context, field, region string, limit int) ([]model.TrendingTopic, error)
	ReplaceTrendingTopics(ctx context.Context, region string, topics []model.TrendingTopic) error

	Stats(ctx context.Context) (*model.StatsSnapshot, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open selects a backend from databaseURL: postgres:// URLs get the
// pgx-backed store, "memory" (or an empty value) the in-process map
// store, and anything else is treated as a SQLite path or DSN.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	switch {
	case databaseURL == "" || databaseURL == "memory":
		return NewMemory(), nil
	case strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://"):
		return OpenPostgres(ctx, databaseURL)
	default:
		return OpenSQLite(ctx, databaseURL)
	}
}

// guestKey normalizes a guest name to its natural key.
func guestKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

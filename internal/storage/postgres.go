package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podmatch/internal/model"
)

const (
	maxConnectRetries    = 5
	connectRetryInterval = 2 * time.Second
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS guests (
    name_key            TEXT PRIMARY KEY,
    name                TEXT NOT NULL,
    field               TEXT NOT NULL DEFAULT '',
    bio                 TEXT NOT NULL DEFAULT '',
    social_reach        BIGINT NOT NULL DEFAULT 0,
    trending_score      DOUBLE PRECISION NOT NULL DEFAULT 0,
    compatibility_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    region              TEXT NOT NULL DEFAULT '',
    expertise           TEXT[] NOT NULL DEFAULT '{}',
    last_updated        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS channels (
    channel_id    TEXT PRIMARY KEY,
    url           TEXT NOT NULL DEFAULT '',
    title         TEXT NOT NULL DEFAULT '',
    description   TEXT NOT NULL DEFAULT '',
    subscribers   BIGINT NOT NULL DEFAULT 0,
    video_count   BIGINT NOT NULL DEFAULT 0,
    view_count    BIGINT NOT NULL DEFAULT 0,
    topics        TEXT[] NOT NULL DEFAULT '{}',
    last_analyzed TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
    id                  TEXT PRIMARY KEY,
    channel_id          TEXT NOT NULL,
    guest_name          TEXT NOT NULL,
    guest_field         TEXT NOT NULL DEFAULT '',
    region              TEXT NOT NULL DEFAULT '',
    compatibility_score INT NOT NULL,
    audience_overlap    INT NOT NULL,
    trending_factor     INT NOT NULL,
    topic_overlap       INT NOT NULL,
    risk_level          TEXT NOT NULL,
    recommendations     TEXT[] NOT NULL DEFAULT '{}',
    details             JSONB,
    created_at          TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_channel_created
    ON analyses (channel_id, created_at DESC);

CREATE INDEX IF NOT EXISTS idx_analyses_created
    ON analyses (created_at DESC);

CREATE TABLE IF NOT EXISTS trending_topics (
    name       TEXT NOT NULL,
    field      TEXT NOT NULL,
    score      DOUBLE PRECISION NOT NULL,
    region     TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (region, name)
);

CREATE INDEX IF NOT EXISTS idx_trending_field_region
    ON trending_topics (field, region);
`

// Postgres is the pgx-backed store.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects with bounded startup retries (the database may
// still be coming up alongside the service) and applies the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				log.Println("database connected")
				if _, err := pool.Exec(ctx, postgresSchema); err != nil {
					pool.Close()
					return nil, fmt.Errorf("apply schema: %w", err)
				}
				return &Postgres{pool: pool}, nil
			} else {
				pool.Close()
				err = pingErr
			}
		}

		log.Printf("database connection attempt %d/%d failed: %v", attempt, maxConnectRetries, err)
		if attempt < maxConnectRetries {
			time.Sleep(connectRetryInterval)
		}
	}

	return nil, fmt.Errorf("database connection failed after %d attempts: %w", maxConnectRetries, err)
}

// Pool exposes the underlying pgx pool for metrics gauges.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *Postgres) UpsertGuest(ctx context.Context, g *model.Guest) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO guests (name_key, name, field, bio, social_reach,
		                    trending_score, compatibility_score, region,
		                    expertise, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (name_key) DO UPDATE SET
			name = EXCLUDED.name,
			field = EXCLUDED.field,
			bio = EXCLUDED.bio,
			social_reach = EXCLUDED.social_reach,
			trending_score = EXCLUDED.trending_score,
			compatibility_score = EXCLUDED.compatibility_score,
			region = EXCLUDED.region,
			expertise = EXCLUDED.expertise,
			last_updated = EXCLUDED.last_updated`,
		guestKey(g.Name), g.Name, g.Field, g.Bio, g.SocialReach,
		g.TrendingScore, g.Compatibility, g.Region,
		emptyIfNil(g.Expertise), g.LastUpdated)
	return err
}

func (p *Postgres) GetGuestByName(ctx context.Context, name string) (*model.Guest, error) {
	var g model.Guest
	err := p.pool.QueryRow(ctx, `
		SELECT name, field, bio, social_reach, trending_score,
		       compatibility_score, region, expertise, last_updated
		FROM guests
		WHERE name_key = $1`, guestKey(name)).Scan(
		&g.Name, &g.Field, &g.Bio, &g.SocialReach, &g.TrendingScore,
		&g.Compatibility, &g.Region, &g.Expertise, &g.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (p *Postgres) ListGuests(ctx context.Context, field, region string, limit int) ([]model.Guest, error) {
	query := `
		SELECT name, field, bio, social_reach, trending_score,
		       compatibility_score, region, expertise, last_updated
		FROM guests`
	var conds []string
	var args []any
	if field != "" {
		args = append(args, field)
		conds = append(conds, fmt.Sprintf("LOWER(field) = LOWER($%d)", len(args)))
	}
	if region != "" {
		args = append(args, region)
		conds = append(conds, fmt.Sprintf("LOWER(region) = LOWER($%d)", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY trending_score DESC, name ASC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guests []model.Guest
	for rows.Next() {
		var g model.Guest
		if err := rows.Scan(&g.Name, &g.Field, &g.Bio, &g.SocialReach,
			&g.TrendingScore, &g.Compatibility, &g.Region, &g.Expertise,
			&g.LastUpdated); err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func (p *Postgres) SearchGuests(ctx context.Context, query string, limit int) ([]model.GuestSuggestion, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	q := `
		SELECT name, field FROM guests
		WHERE LOWER(name) LIKE $1
		ORDER BY name ASC`
	args := []any{pattern}
	if limit > 0 {
		args = append(args, limit)
		q += " LIMIT $2"
	}

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GuestSuggestion
	for rows.Next() {
		var sg model.GuestSuggestion
		if err := rows.Scan(&sg.Name, &sg.Field); err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	return out, rows.Err()
}

func (p *Postgres) UpsertChannel(ctx context.Context, ch *model.Channel) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO channels (channel_id, url, title, description,
		                      subscribers, video_count, view_count,
		                      topics, last_analyzed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (channel_id) DO UPDATE SET
			url = EXCLUDED.url,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			subscribers = EXCLUDED.subscribers,
			video_count = EXCLUDED.video_count,
			view_count = EXCLUDED.view_count,
			topics = EXCLUDED.topics,
			last_analyzed = EXCLUDED.last_analyzed`,
		ch.ChannelID, ch.URL, ch.Title, ch.Description,
		ch.Subscribers, ch.VideoCount, ch.ViewCount,
		emptyIfNil(ch.Topics), ch.LastAnalyzed)
	return err
}

func (p *Postgres) GetChannel(ctx context.Context, channelID string) (*model.Channel, error) {
	var ch model.Channel
	err := p.pool.QueryRow(ctx, `
		SELECT channel_id, url, title, description, subscribers,
		       video_count, view_count, topics, last_analyzed
		FROM channels
		WHERE channel_id = $1`, channelID).Scan(
		&ch.ChannelID, &ch.URL, &ch.Title, &ch.Description, &ch.Subscribers,
		&ch.VideoCount, &ch.ViewCount, &ch.Topics, &ch.LastAnalyzed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (p *Postgres) InsertAnalysis(ctx context.Context, a *model.Analysis) error {
	var details any
	if len(a.Details) > 0 {
		details = []byte(a.Details)
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO analyses (id, channel_id, guest_name, guest_field,
		                      region, compatibility_score, audience_overlap,
		                      trending_factor, topic_overlap, risk_level,
		                      recommendations, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.ChannelID, a.GuestName, a.GuestField, a.Region,
		a.Compatibility, a.AudienceOverlap, a.TrendingFactor, a.TopicOverlap,
		a.RiskLevel, emptyIfNil(a.Recommendations), details, a.CreatedAt)
	return err
}

func (p *Postgres) ListAnalysesByChannel(ctx context.Context, channelID string, limit int) ([]model.Analysis, error) {
	return p.listAnalyses(ctx, "WHERE channel_id = $1", []any{channelID}, limit)
}

func (p *Postgres) ListRecentAnalyses(ctx context.Context, limit int) ([]model.Analysis, error) {
	return p.listAnalyses(ctx, "", nil, limit)
}

func (p *Postgres) listAnalyses(ctx context.Context, where string, args []any, limit int) ([]model.Analysis, error) {
	query := `
		SELECT id, channel_id, guest_name, guest_field, region,
		       compatibility_score, audience_overlap, trending_factor,
		       topic_overlap, risk_level, recommendations, details, created_at
		FROM analyses `
	query += where + " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Analysis
	for rows.Next() {
		var a model.Analysis
		var details []byte
		if err := rows.Scan(&a.ID, &a.ChannelID, &a.GuestName, &a.GuestField,
			&a.Region, &a.Compatibility, &a.AudienceOverlap, &a.TrendingFactor,
			&a.TopicOverlap, &a.RiskLevel, &a.Recommendations, &details,
			&a.CreatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			a.Details = details
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *Postgres) ListTrendingTopics(ctx context.Context, field, region string, limit int) ([]model.TrendingTopic, error) {
	query := `SELECT name, field, score, region, updated_at FROM trending_topics`
	var conds []string
	var args []any
	if field != "" {
		args = append(args, field)
		conds = append(conds, fmt.Sprintf("LOWER(field) = LOWER($%d)", len(args)))
	}
	if region != "" {
		args = append(args, region)
		conds = append(conds, fmt.Sprintf("LOWER(region) = LOWER($%d)", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY score DESC, name ASC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TrendingTopic
	for rows.Next() {
		var t model.TrendingTopic
		if err := rows.Scan(&t.Name, &t.Field, &t.Score, &t.Region, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (p *Postgres) ReplaceTrendingTopics(ctx context.Context, region string, topics []model.TrendingTopic) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM trending_topics WHERE LOWER(region) = LOWER($1)`, region); err != nil {
		return err
	}
	for _, t := range topics {
		if _, err := tx.Exec(ctx, `
			INSERT INTO trending_topics (name, field, score, region, updated_at)
			VALUES ($1, $2, $3, $4, $5)`,
			t.Name, t.Field, t.Score, t.Region, t.UpdatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (p *Postgres) Stats(ctx context.Context) (*model.StatsSnapshot, error) {
	snap := &model.StatsSnapshot{Backend: "postgres"}
	err := p.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM guests),
			(SELECT COUNT(*) FROM channels),
			(SELECT COUNT(*) FROM analyses),
			(SELECT COUNT(*) FROM trending_topics)`).Scan(
		&snap.Guests, &snap.Channels, &snap.Analyses, &snap.Topics)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// emptyIfNil keeps array columns NOT NULL when a record carries no tags.
func emptyIfNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"

	"podmatch/internal/model"
)

//go:embed schema.sql
var sqliteSchema string

// SQLite is the file-backed store. Timestamps are stored as Unix
// nanoseconds so descending-time ordering holds in SQL; tag lists and the
// detail blob are stored as JSON text.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	memory := dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
	if dsn == ":memory:" {
		// A plain :memory: DSN gives each pooled connection its own
		// database; shared cache keeps them all on one.
		dsn = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	if memory {
		db.SetMaxOpenConns(1)
	} else {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) UpsertGuest(ctx context.Context, g *model.Guest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guests (name_key, name, field, bio, social_reach,
		                    trending_score, compatibility_score, region,
		                    expertise, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name_key) DO UPDATE SET
			name = excluded.name,
			field = excluded.field,
			bio = excluded.bio,
			social_reach = excluded.social_reach,
			trending_score = excluded.trending_score,
			compatibility_score = excluded.compatibility_score,
			region = excluded.region,
			expertise = excluded.expertise,
			last_updated = excluded.last_updated`,
		guestKey(g.Name), g.Name, g.Field, g.Bio, g.SocialReach,
		g.TrendingScore, g.Compatibility, g.Region,
		marshalTags(g.Expertise), g.LastUpdated.UnixNano())
	return err
}

func (s *SQLite) GetGuestByName(ctx context.Context, name string) (*model.Guest, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, field, bio, social_reach, trending_score,
		       compatibility_score, region, expertise, last_updated
		FROM guests
		WHERE name_key = ?`, guestKey(name))
	return scanGuest(row)
}

func (s *SQLite) ListGuests(ctx context.Context, field, region string, limit int) ([]model.Guest, error) {
	query := `
		SELECT name, field, bio, social_reach, trending_score,
		       compatibility_score, region, expertise, last_updated
		FROM guests`
	var conds []string
	var args []any
	if field != "" {
		conds = append(conds, "LOWER(field) = LOWER(?)")
		args = append(args, field)
	}
	if region != "" {
		conds = append(conds, "LOWER(region) = LOWER(?)")
		args = append(args, region)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY trending_score DESC, name ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guests []model.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, *g)
	}
	return guests, rows.Err()
}

func (s *SQLite) SearchGuests(ctx context.Context, query string, limit int) ([]model.GuestSuggestion, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	q := `
		SELECT name, field FROM guests
		WHERE LOWER(name) LIKE ?
		ORDER BY name ASC`
	args := []any{pattern}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
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

func (s *SQLite) UpsertChannel(ctx context.Context, ch *model.Channel) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO channels (channel_id, url, title, description,
		                      subscribers, video_count, view_count,
		                      topics, last_analyzed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (channel_id) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			description = excluded.description,
			subscribers = excluded.subscribers,
			video_count = excluded.video_count,
			view_count = excluded.view_count,
			topics = excluded.topics,
			last_analyzed = excluded.last_analyzed`,
		ch.ChannelID, ch.URL, ch.Title, ch.Description,
		ch.Subscribers, ch.VideoCount, ch.ViewCount,
		marshalTags(ch.Topics), ch.LastAnalyzed.UnixNano())
	return err
}

func (s *SQLite) GetChannel(ctx context.Context, channelID string) (*model.Channel, error) {
	var ch model.Channel
	var topics string
	var analyzed int64
	err := s.db.QueryRowContext(ctx, `
		SELECT channel_id, url, title, description, subscribers,
		       video_count, view_count, topics, last_analyzed
		FROM channels
		WHERE channel_id = ?`, channelID).Scan(
		&ch.ChannelID, &ch.URL, &ch.Title, &ch.Description, &ch.Subscribers,
		&ch.VideoCount, &ch.ViewCount, &topics, &analyzed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ch.Topics = unmarshalTags(topics)
	ch.LastAnalyzed = time.Unix(0, analyzed)
	return &ch, nil
}

func (s *SQLite) InsertAnalysis(ctx context.Context, a *model.Analysis) error {
	var details any
	if len(a.Details) > 0 {
		details = string(a.Details)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, channel_id, guest_name, guest_field,
		                      region, compatibility_score, audience_overlap,
		                      trending_factor, topic_overlap, risk_level,
		                      recommendations, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ChannelID, a.GuestName, a.GuestField, a.Region,
		a.Compatibility, a.AudienceOverlap, a.TrendingFactor, a.TopicOverlap,
		a.RiskLevel, marshalTags(a.Recommendations), details,
		a.CreatedAt.UnixNano())
	return err
}

func (s *SQLite) ListAnalysesByChannel(ctx context.Context, channelID string, limit int) ([]model.Analysis, error) {
	return s.listAnalyses(ctx, `WHERE channel_id = ?`, []any{channelID}, limit)
}

func (s *SQLite) ListRecentAnalyses(ctx context.Context, limit int) ([]model.Analysis, error) {
	return s.listAnalyses(ctx, "", nil, limit)
}

func (s *SQLite) listAnalyses(ctx context.Context, where string, args []any, limit int) ([]model.Analysis, error) {
	query := `
		SELECT id, channel_id, guest_name, guest_field, region,
		       compatibility_score, audience_overlap, trending_factor,
		       topic_overlap, risk_level, recommendations, details, created_at
		FROM analyses `
	query += where + " ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Analysis
	for rows.Next() {
		var a model.Analysis
		var recs string
		var details sql.NullString
		var created int64
		if err := rows.Scan(&a.ID, &a.ChannelID, &a.GuestName, &a.GuestField,
			&a.Region, &a.Compatibility, &a.AudienceOverlap, &a.TrendingFactor,
			&a.TopicOverlap, &a.RiskLevel, &recs, &details, &created); err != nil {
			return nil, err
		}
		a.Recommendations = unmarshalTags(recs)
		if details.Valid {
			a.Details = json.RawMessage(details.String)
		}
		a.CreatedAt = time.Unix(0, created)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLite) ListTrendingTopics(ctx context.Context, field, region string, limit int) ([]model.TrendingTopic, error) {
	query := `SELECT name, field, score, region, updated_at FROM trending_topics`
	var conds []string
	var args []any
	if field != "" {
		conds = append(conds, "LOWER(field) = LOWER(?)")
		args = append(args, field)
	}
	if region != "" {
		conds = append(conds, "LOWER(region) = LOWER(?)")
		args = append(args, region)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY score DESC, name ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TrendingTopic
	for rows.Next() {
		var t model.TrendingTopic
		var updated int64
		if err := rows.Scan(&t.Name, &t.Field, &t.Score, &t.Region, &updated); err != nil {
			return nil, err
		}
		t.UpdatedAt = time.Unix(0, updated)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLite) ReplaceTrendingTopics(ctx context.Context, region string, topics []model.TrendingTopic) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM trending_topics WHERE LOWER(region) = LOWER(?)`, region); err != nil {
		return err
	}
	for _, t := range topics {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO trending_topics (name, field, score, region, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			t.Name, t.Field, t.Score, t.Region, t.UpdatedAt.UnixNano()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLite) Stats(ctx context.Context) (*model.StatsSnapshot, error) {
	snap := &model.StatsSnapshot{Backend: "sqlite"}
	counts := []struct {
		table string
		dest  *int64
	}{
		{"guests", &snap.Guests},
		{"channels", &snap.Channels},
		{"analyses", &snap.Analyses},
		{"trending_topics", &snap.Topics},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM "+c.table).Scan(c.dest); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGuest(row rowScanner) (*model.Guest, error) {
	var g model.Guest
	var expertise string
	var updated int64
	err := row.Scan(&g.Name, &g.Field, &g.Bio, &g.SocialReach,
		&g.TrendingScore, &g.Compatibility, &g.Region, &expertise, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	g.Expertise = unmarshalTags(expertise)
	g.LastUpdated = time.Unix(0, updated)
	return &g, nil
}

func marshalTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalTags(raw string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}
	return tags
}

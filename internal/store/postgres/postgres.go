// Package postgres implements store.Store on top of Postgres JSONB
// collections (§6.1's expansion: one jsonb doc column per collection plus
// indexed scalar columns used for filtering), adapted from the teacher's
// PostgresUserRepository/MatchRepo pattern of a pgxpool.Pool driven
// directly with tx.Exec/db.Query rather than database/sql.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	engineerrors "github.com/kawanjalan/commute-matcher/internal/matching/errors"
	"github.com/kawanjalan/commute-matcher/internal/store"
)

// Config mirrors the teacher's DatabaseConfig connection parameters.
type Config struct {
	Host, Username, Password, Database, SSLMode string
	Port, MaxConns, IdleConns                   int
}

// Connect builds a pgxpool.Pool the way the teacher's NewPostgresClient
// does: a connection string, pool sizing, and an eager ping.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.IdleConns > 0 {
		poolConfig.MinConns = int32(cfg.IdleConns)
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.HealthCheckPeriod = time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.ConnectConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return pool, nil
}

// Store implements store.Store over Postgres JSONB collections.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already-connected pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ store.Store = (*Store)(nil)

func (s *Store) FindProfiles(ctx context.Context, userIDs []string) ([]entity.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT doc FROM users WHERE id = ANY($1)`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var profiles []entity.Profile
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan user doc: %w", err)
		}
		var p entity.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode user doc: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *Store) FindCommutes(ctx context.Context, filter store.CommuteFilter) ([]entity.Commute, error) {
	query := `SELECT doc FROM commutes WHERE 1=1`
	var args []interface{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.EnableSuggestionsFlow != nil {
		args = append(args, *filter.EnableSuggestionsFlow)
		query += fmt.Sprintf(" AND enable_suggestions_flow = $%d", len(args))
	}
	if filter.EnableQueueFlow != nil {
		args = append(args, *filter.EnableQueueFlow)
		query += fmt.Sprintf(" AND enable_queue_flow = $%d", len(args))
	}
	if len(filter.MatchPreferences) > 0 {
		prefs := make([]string, len(filter.MatchPreferences))
		for i, p := range filter.MatchPreferences {
			prefs[i] = string(p)
		}
		args = append(args, prefs)
		query += fmt.Sprintf(" AND match_preference = ANY($%d)", len(args))
	}
	if len(filter.UserIDs) > 0 {
		args = append(args, filter.UserIDs)
		query += fmt.Sprintf(" AND user_id = ANY($%d)", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commutes: %w", err)
	}
	defer rows.Close()

	var commutes []entity.Commute
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan commute doc: %w", err)
		}
		var c entity.Commute
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("failed to decode commute doc: %w", err)
		}
		commutes = append(commutes, c)
	}
	return commutes, rows.Err()
}

func (s *Store) SaveCommute(ctx context.Context, c entity.Commute) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode commute doc: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO commutes (id, user_id, status, match_preference, enable_suggestions_flow, enable_queue_flow, doc)
		VALUES ($1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			status = $2, match_preference = $3, enable_suggestions_flow = $4,
			enable_queue_flow = $5, doc = $6
	`, c.UserID, c.Status, c.MatchPreference, c.EnableSuggestionsFlow, c.EnableQueueFlow, doc)
	if err != nil {
		return fmt.Errorf("failed to save commute: %w", err)
	}
	return nil
}

func (s *Store) FindMatches(ctx context.Context, filter store.MatchFilter) ([]entity.Match, error) {
	query := `SELECT doc FROM matches WHERE 1=1`
	var args []interface{}

	if filter.Source != nil {
		args = append(args, *filter.Source)
		query += fmt.Sprintf(" AND source = $%d", len(args))
	}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		args = append(args, statuses)
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}
	if filter.CommuteDate != nil {
		args = append(args, *filter.CommuteDate)
		query += fmt.Sprintf(" AND commute_date = $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []entity.Match
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan match doc: %w", err)
		}
		var m entity.Match
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("failed to decode match doc: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *Store) GetMatch(ctx context.Context, id string) (entity.Match, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM matches WHERE id = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Match{}, engineerrors.ErrMatchNotFound
		}
		return entity.Match{}, fmt.Errorf("failed to get match: %w", err)
	}
	var m entity.Match
	if err := json.Unmarshal(raw, &m); err != nil {
		return entity.Match{}, fmt.Errorf("failed to decode match doc: %w", err)
	}
	return m, nil
}

func (s *Store) InsertMatch(ctx context.Context, m entity.Match) (entity.Match, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := s.upsertMatch(ctx, m); err != nil {
		return entity.Match{}, err
	}
	return m, nil
}

func (s *Store) SaveMatch(ctx context.Context, m entity.Match) error {
	return s.upsertMatch(ctx, m)
}

func (s *Store) upsertMatch(ctx context.Context, m entity.Match) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode match doc: %w", err)
	}
	var commuteDate *time.Time
	if m.CommuteDate != nil {
		d := *m.CommuteDate
		commuteDate = &d
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO matches (id, source, kind, status, commute_date, doc)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			source = $2, kind = $3, status = $4, commute_date = $5, doc = $6
	`, m.ID, m.Source, m.Kind, m.Status, commuteDate, doc)
	if err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}
	return nil
}

func (s *Store) InsertChatRoom(ctx context.Context, room entity.ChatRoom) (entity.ChatRoom, error) {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	doc, err := json.Marshal(room)
	if err != nil {
		return entity.ChatRoom{}, fmt.Errorf("failed to encode chat room doc: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO chat_rooms (id, match_id, doc) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET match_id = $2, doc = $3
	`, room.ID, room.MatchID, doc)
	if err != nil {
		return entity.ChatRoom{}, fmt.Errorf("failed to save chat room: %w", err)
	}
	return room, nil
}

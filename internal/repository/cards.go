package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/deck"
)

// ErrCardNotFound is returned by Get for unknown card IDs.
var ErrCardNotFound = errors.New("card not found")

// Schema creates the card catalog table.
const Schema = `
CREATE TABLE IF NOT EXISTS swu_cards (
	id         TEXT PRIMARY KEY,
	set_code   TEXT NOT NULL DEFAULT '',
	number     TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL,
	card_type  TEXT NOT NULL,
	subtype    TEXT NOT NULL DEFAULT '',
	cost       INTEGER NOT NULL DEFAULT 0,
	power      INTEGER NOT NULL DEFAULT 0,
	hp         INTEGER NOT NULL DEFAULT 0,
	arenas     TEXT[] NOT NULL DEFAULT '{}',
	keywords   TEXT[] NOT NULL DEFAULT '{}',
	aspects    TEXT[] NOT NULL DEFAULT '{}',
	back_info  TEXT NOT NULL DEFAULT '',
	token_info TEXT NOT NULL DEFAULT ''
)`

const upsertCard = `
INSERT INTO swu_cards (
	id, set_code, number, name, card_type, subtype, cost, power, hp,
	arenas, keywords, aspects, back_info, token_info
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO UPDATE SET
	set_code = EXCLUDED.set_code, number = EXCLUDED.number, name = EXCLUDED.name,
	card_type = EXCLUDED.card_type, subtype = EXCLUDED.subtype, cost = EXCLUDED.cost,
	power = EXCLUDED.power, hp = EXCLUDED.hp, arenas = EXCLUDED.arenas,
	keywords = EXCLUDED.keywords, aspects = EXCLUDED.aspects,
	back_info = EXCLUDED.back_info, token_info = EXCLUDED.token_info`

const selectCards = `
SELECT id, set_code, number, name, card_type, subtype, cost, power, hp,
	arenas, keywords, aspects, back_info, token_info
FROM swu_cards`

// CardStore persists card templates in PostgreSQL.
type CardStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewDB opens a connection pool and verifies it with a ping.
func NewDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// NewCardStore wraps pool. A nil logger is replaced with a no-op logger.
func NewCardStore(pool *pgxpool.Pool, logger *zap.Logger) *CardStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CardStore{pool: pool, logger: logger}
}

// Migrate creates the schema when missing.
func (s *CardStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate card schema: %w", err)
	}
	return nil
}

// Upsert writes templates in batches of batchSize, one transaction per batch.
// It returns the number of cards written.
func (s *CardStore) Upsert(ctx context.Context, templates []*cards.Template, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	written := 0
	for start := 0; start < len(templates); start += batchSize {
		end := min(start+batchSize, len(templates))
		if err := s.upsertBatch(ctx, templates[start:end]); err != nil {
			return written, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		written += end - start
		s.logger.Debug("card batch written", zap.Int("written", written), zap.Int("total", len(templates)))
	}
	return written, nil
}

func (s *CardStore) upsertBatch(ctx context.Context, batch []*cards.Template) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	b := &pgx.Batch{}
	for _, tpl := range batch {
		b.Queue(upsertCard, cardArgs(tpl)...)
	}
	if err := tx.SendBatch(ctx, b).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Get loads one template by ID.
func (s *CardStore) Get(ctx context.Context, id string) (*cards.Template, error) {
	rows, err := s.pool.Query(ctx, selectCards+" WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("query card %s: %w", id, err)
	}
	tpl, err := pgx.CollectExactlyOneRow(rows, scanCard)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scan card %s: %w", id, err)
	}
	return tpl, nil
}

// Catalog loads every stored template.
func (s *CardStore) Catalog(ctx context.Context) (deck.Catalog, error) {
	rows, err := s.pool.Query(ctx, selectCards+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	templates, err := pgx.CollectRows(rows, scanCard)
	if err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}
	cat := make(deck.Catalog, len(templates))
	for _, tpl := range templates {
		cat[tpl.ID] = tpl
	}
	s.logger.Info("card catalog loaded from database", zap.Int("cards", len(cat)))
	return cat, nil
}

// Count returns the number of stored cards.
func (s *CardStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM swu_cards").Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

func cardArgs(tpl *cards.Template) []any {
	arenas := make([]string, len(tpl.Arenas))
	for i, a := range tpl.Arenas {
		arenas[i] = string(a)
	}
	return []any{
		tpl.ID, tpl.Set, tpl.Number, tpl.Name, string(tpl.Type), tpl.Subtype,
		tpl.Cost, tpl.Attack, tpl.Health,
		arenas, nonNil(tpl.Keywords), nonNil(tpl.Aspects), tpl.BackInfo, tpl.TokenInfo,
	}
}

func scanCard(row pgx.CollectableRow) (*cards.Template, error) {
	var (
		tpl    cards.Template
		typ    string
		arenas []string
	)
	err := row.Scan(
		&tpl.ID, &tpl.Set, &tpl.Number, &tpl.Name, &typ, &tpl.Subtype,
		&tpl.Cost, &tpl.Attack, &tpl.Health,
		&arenas, &tpl.Keywords, &tpl.Aspects, &tpl.BackInfo, &tpl.TokenInfo,
	)
	if err != nil {
		return nil, err
	}
	if tpl.Type, err = cards.ParseType(typ); err != nil {
		return nil, err
	}
	tpl.Arenas = cards.NormalizeArenas(arenas)
	return &tpl, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

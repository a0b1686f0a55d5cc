package storage

// sqlite.go — archivo local de trades y datos de referencia.
//
// Estrategia:
//   - `trades`: una fila por trade ingestado (INSERT OR IGNORE por id).
//   - `markets`: metadata por mercado, UPSERT en cada ingesta.
//   - `price_points` / `book_depth`: tick data opcional para el modelo de
//     fills. Si faltan, el engine cae al drift / slippage sin book.
//   - El ranking de wallets es agregación SQL pura sobre `trades`: la
//     simulación nunca rankea en caliente.
//   - Prune al arrancar: trades más viejos que 2× la ventana máxima.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/copysim/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
    id           TEXT PRIMARY KEY,
    wallet       TEXT NOT NULL,
    condition_id TEXT NOT NULL,
    token_id     TEXT NOT NULL,
    side         TEXT NOT NULL,
    outcome      TEXT NOT NULL,
    price        REAL NOT NULL,
    size         REAL NOT NULL,
    value_usdc   REAL NOT NULL,
    ts           DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS markets (
    condition_id    TEXT PRIMARY KEY,
    question        TEXT,
    daily_volume    REAL    NOT NULL DEFAULT 0,
    closed          INTEGER NOT NULL DEFAULT 0,
    winning_outcome TEXT    NOT NULL DEFAULT '',
    last_yes_price  REAL    NOT NULL DEFAULT 0,
    updated_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS price_points (
    token_id TEXT NOT NULL,
    ts       DATETIME NOT NULL,
    price    REAL NOT NULL,
    PRIMARY KEY (token_id, ts)
);

CREATE TABLE IF NOT EXISTS book_depth (
    token_id   TEXT NOT NULL,
    ts         DATETIME NOT NULL,
    near_usd   REAL NOT NULL,
    deep_usd   REAL NOT NULL,
    spread_bps REAL NOT NULL,
    PRIMARY KEY (token_id, ts)
);

CREATE INDEX IF NOT EXISTS idx_trades_wallet ON trades(wallet);
CREATE INDEX IF NOT EXISTS idx_trades_ts     ON trades(ts);
CREATE INDEX IF NOT EXISTS idx_trades_cond   ON trades(condition_id);
`

const (
	tradeRetention = 2 * 365 * 24 * time.Hour // 2× la ventana máxima de lookback

	// Staleness máximo de la tick data: un punto más viejo que esto respecto
	// al instante pedido cuenta como miss.
	maxPriceStaleness = 6 * time.Hour
	maxBookStaleness  = 24 * time.Hour
)

// SQLiteArchive implementa los ports de datos (WalletRanker, TradeSource,
// MarketSource, PriceSource) sobre SQLite (pure Go, sin CGo).
type SQLiteArchive struct {
	db *sql.DB
}

// NewSQLiteArchive abre (o crea) el archivo en la ruta dada, aplica el schema
// y limpia datos antiguos.
func NewSQLiteArchive(path string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteArchive: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteArchive: apply schema: %w", err)
	}

	s := &SQLiteArchive{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// Close cierra la conexión limpiamente.
func (s *SQLiteArchive) Close() error {
	return s.db.Close()
}

func (s *SQLiteArchive) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-tradeRetention)
	for _, table := range []string{"trades", "price_points", "book_depth"} {
		_, _ = s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE ts < ?", table), cutoff)
	}
}

// ListFollowedWallets rankea las wallets archivadas por la métrica dada.
// El PnL aquí es cash-flow (ventas − compras): suficiente para RANKEAR,
// nunca se usa como resultado de simulación.
func (s *SQLiteArchive) ListFollowedWallets(ctx context.Context, metric string, limit int) ([]string, error) {
	var order string
	switch metric {
	case domain.MetricVolume:
		order = "SUM(value_usdc) DESC"
	case domain.MetricPnL:
		order = "SUM(CASE WHEN side = 'SELL' THEN value_usdc ELSE -value_usdc END) DESC"
	case domain.MetricROI:
		order = `SUM(CASE WHEN side = 'SELL' THEN value_usdc ELSE -value_usdc END)
		         / SUM(CASE WHEN side = 'BUY' THEN value_usdc ELSE 0 END) DESC`
	default:
		return nil, fmt.Errorf("storage.ListFollowedWallets: unknown metric %q", metric)
	}

	query := fmt.Sprintf(`
		SELECT wallet FROM trades
		GROUP BY wallet
		HAVING SUM(CASE WHEN side = 'BUY' THEN value_usdc ELSE 0 END) > 0
		ORDER BY %s
		LIMIT ?`, order)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.ListFollowedWallets: %w", err)
	}
	defer rows.Close()

	var wallets []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("storage.ListFollowedWallets: scan: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// TradesSince devuelve los trades de las wallets dadas desde windowStart,
// en orden cronológico ascendente.
func (s *SQLiteArchive) TradesSince(ctx context.Context, windowStart time.Time, wallets []string) ([]domain.Trade, error) {
	if len(wallets) == 0 {
		return nil, nil
	}

	query := `SELECT id, wallet, condition_id, token_id, side, outcome, price, size, value_usdc, ts
	          FROM trades WHERE ts >= ? AND wallet IN (` + placeholders(len(wallets)) + `)
	          ORDER BY ts ASC`

	args := make([]any, 0, len(wallets)+1)
	args = append(args, windowStart.UTC())
	for _, w := range wallets {
		args = append(args, w)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage.TradesSince: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var side string
		if err := rows.Scan(&t.ID, &t.Wallet, &t.ConditionID, &t.TokenID, &side,
			&t.Outcome, &t.Price, &t.Size, &t.ValueUSDC, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("storage.TradesSince: scan: %w", err)
		}
		t.Side = domain.Side(side)
		t.Timestamp = t.Timestamp.UTC()
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// MarketSnapshot devuelve la metadata archivada de un mercado.
func (s *SQLiteArchive) MarketSnapshot(ctx context.Context, conditionID string) (domain.MarketSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT condition_id, question, daily_volume, closed, winning_outcome, last_yes_price, updated_at
		FROM markets WHERE condition_id = ?`, conditionID)

	var m domain.MarketSnapshot
	var closed int
	if err := row.Scan(&m.ConditionID, &m.Question, &m.DailyVolume, &closed,
		&m.WinningOutcome, &m.LastYesPrice, &m.UpdatedAt); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("storage.MarketSnapshot %s: %w", conditionID, err)
	}
	m.Closed = closed != 0
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, nil
}

// PriceAtTime devuelve el precio archivado más reciente en (o antes de) ts.
// Un punto más viejo que el staleness máximo cuenta como miss (ErrNoPrice).
func (s *SQLiteArchive) PriceAtTime(ctx context.Context, tokenID string, ts time.Time) (float64, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT price, ts FROM price_points
		WHERE token_id = ? AND ts <= ?
		ORDER BY ts DESC LIMIT 1`, tokenID, ts.UTC())

	var price float64
	var at time.Time
	if err := row.Scan(&price, &at); err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrNoPrice
		}
		return 0, fmt.Errorf("storage.PriceAtTime: %w", err)
	}
	if ts.Sub(at) > maxPriceStaleness {
		return 0, domain.ErrNoPrice
	}
	return price, nil
}

// BookAtOrBefore devuelve el snapshot de profundidad en (o antes de) ts.
func (s *SQLiteArchive) BookAtOrBefore(ctx context.Context, tokenID string, ts time.Time) (domain.BookDepth, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT token_id, ts, near_usd, deep_usd, spread_bps FROM book_depth
		WHERE token_id = ? AND ts <= ?
		ORDER BY ts DESC LIMIT 1`, tokenID, ts.UTC())

	var b domain.BookDepth
	if err := row.Scan(&b.TokenID, &b.Timestamp, &b.NearTouchUSD, &b.DeepUSD, &b.SpreadBps); err != nil {
		if err == sql.ErrNoRows {
			return domain.BookDepth{}, domain.ErrNoBook
		}
		return domain.BookDepth{}, fmt.Errorf("storage.BookAtOrBefore: %w", err)
	}
	if ts.Sub(b.Timestamp) > maxBookStaleness {
		return domain.BookDepth{}, domain.ErrNoBook
	}
	b.Timestamp = b.Timestamp.UTC()
	return b, nil
}

// SaveTrades inserta trades ingestados. Idempotente: los ids repetidos entre
// páginas o re-ingestas se ignoran.
func (s *SQLiteArchive) SaveTrades(ctx context.Context, trades []domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveTrades: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO trades
		(id, wallet, condition_id, token_id, side, outcome, price, size, value_usdc, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveTrades: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx, t.ID, t.Wallet, t.ConditionID, t.TokenID,
			string(t.Side), t.Outcome, t.Price, t.Size, t.Notional(), t.Timestamp.UTC()); err != nil {
			return fmt.Errorf("storage.SaveTrades: insert %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// SaveMarket hace upsert de la metadata de un mercado.
func (s *SQLiteArchive) SaveMarket(ctx context.Context, m domain.MarketSnapshot) error {
	closed := 0
	if m.Closed {
		closed = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO markets (condition_id, question, daily_volume, closed, winning_outcome, last_yes_price, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(condition_id) DO UPDATE SET
			question = excluded.question,
			daily_volume = excluded.daily_volume,
			closed = excluded.closed,
			winning_outcome = excluded.winning_outcome,
			last_yes_price = excluded.last_yes_price,
			updated_at = excluded.updated_at`,
		m.ConditionID, m.Question, m.DailyVolume, closed, m.WinningOutcome,
		m.LastYesPrice, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("storage.SaveMarket %s: %w", m.ConditionID, err)
	}
	return nil
}

// SavePricePoints inserta puntos de precio históricos de un token.
func (s *SQLiteArchive) SavePricePoints(ctx context.Context, tokenID string, points map[time.Time]float64) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SavePricePoints: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO price_points (token_id, ts, price) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SavePricePoints: prepare: %w", err)
	}
	defer stmt.Close()

	for ts, price := range points {
		if _, err := stmt.ExecContext(ctx, tokenID, ts.UTC(), price); err != nil {
			return fmt.Errorf("storage.SavePricePoints: insert: %w", err)
		}
	}
	return tx.Commit()
}

// SaveBookDepth inserta un snapshot de profundidad.
func (s *SQLiteArchive) SaveBookDepth(ctx context.Context, b domain.BookDepth) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO book_depth (token_id, ts, near_usd, deep_usd, spread_bps)
		VALUES (?, ?, ?, ?, ?)`,
		b.TokenID, b.Timestamp.UTC(), b.NearTouchUSD, b.DeepUSD, b.SpreadBps)
	if err != nil {
		return fmt.Errorf("storage.SaveBookDepth: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	out := "?"
	for i := 1; i < n; i++ {
		out += ", ?"
	}
	return out
}

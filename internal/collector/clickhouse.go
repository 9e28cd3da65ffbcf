package collector

import (
	"context"
	"fmt"
	"time"

	clickhouse "github.com/ClickHouse/clickhouse-go/v2"

	"VWAPSentinel/internal/model"
)

// ClickHouseOptions configures the candle warehouse connection.
type ClickHouseOptions struct {
	Addr     string
	Database string
	Table    string
	User     string
	Password string
	Interval string // candle interval stored in the table, e.g. "5m"
}

// ClickHouseFetcher reads candles from a ClickHouse table with columns
// (symbol, interval, open_time_ms, open, high, low, close, volume).
type ClickHouseFetcher struct {
	conn clickhouse.Conn
	opts ClickHouseOptions
}

// NewClickHouseFetcher connects to ClickHouse and verifies the connection.
func NewClickHouseFetcher(ctx context.Context, opts ClickHouseOptions) (*ClickHouseFetcher, error) {
	if opts.Interval == "" {
		opts.Interval = "5m"
	}
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.User,
			Password: opts.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	return &ClickHouseFetcher{conn: conn, opts: opts}, nil
}

func (f *ClickHouseFetcher) Name() string { return "clickhouse" }

func (f *ClickHouseFetcher) FetchCandles(ctx context.Context, symbol string, from, to time.Time) ([]model.Candle, error) {
	query := fmt.Sprintf(`
		SELECT open_time_ms, open, high, low, close, volume
		FROM %s.%s
		WHERE symbol = ? AND interval = ? AND open_time_ms >= ? AND open_time_ms < ?
		ORDER BY open_time_ms`, f.opts.Database, f.opts.Table)

	rows, err := f.conn.Query(ctx, query, symbol, f.opts.Interval, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("clickhouse query: %w", err)
	}
	defer rows.Close()

	var candles []model.Candle
	for rows.Next() {
		var openTimeMs int64
		var o, h, l, c, v float64
		if err := rows.Scan(&openTimeMs, &o, &h, &l, &c, &v); err != nil {
			return nil, fmt.Errorf("clickhouse scan: %w", err)
		}
		candles = append(candles, model.Candle{
			Time:   time.UnixMilli(openTimeMs).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clickhouse rows: %w", err)
	}
	return candles, nil
}

// Close releases the ClickHouse connection.
func (f *ClickHouseFetcher) Close() error {
	return f.conn.Close()
}

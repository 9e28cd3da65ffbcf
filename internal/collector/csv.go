package collector

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"VWAPSentinel/internal/model"
)

// CSVFetcher loads candles from a local CSV file with columns
// timestamp,open,high,low,close,volume. The timestamp is either unix seconds,
// unix milliseconds or RFC3339. A header row is skipped when present, and
// UTF-16 exports (common from spreadsheet tools) are decoded transparently.
type CSVFetcher struct {
	Path string
}

// NewCSVFetcher creates a fetcher reading from path.
func NewCSVFetcher(path string) *CSVFetcher {
	return &CSVFetcher{Path: path}
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) FetchCandles(_ context.Context, _ string, from, to time.Time) ([]model.Candle, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(decodeBOM(file))
	reader.TrimLeadingSpace = true

	var candles []model.Candle
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line+1, err)
		}
		line++

		if len(record) < 6 {
			return nil, fmt.Errorf("csv line %d: expected 6 columns, got %d", line, len(record))
		}
		// Header row: first field is not numeric.
		if line == 1 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64); err != nil {
				continue
			}
		}

		c, err := parseCandleRecord(record)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if c.Time.Before(from) || !c.Time.Before(to) {
			continue
		}
		candles = append(candles, c)
	}
	return candles, nil
}

// decodeBOM wraps r with a UTF-16 decoder when a BOM is present.
func decodeBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, _ := br.Peek(2)
	if len(head) >= 2 && ((head[0] == 0xFF && head[1] == 0xFE) || (head[0] == 0xFE && head[1] == 0xFF)) {
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	}
	return br
}

func parseCandleRecord(record []string) (model.Candle, error) {
	ts := strings.TrimSpace(record[0])

	var when time.Time
	if sec, err := strconv.ParseInt(ts, 10, 64); err == nil {
		if sec > 1e12 { // milliseconds
			when = time.UnixMilli(sec).UTC()
		} else {
			when = time.Unix(sec, 0).UTC()
		}
	} else if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
		when = parsed
	} else {
		return model.Candle{}, fmt.Errorf("unparseable timestamp %q", ts)
	}

	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return model.Candle{}, fmt.Errorf("column %d: %w", i+2, err)
		}
		vals[i] = v
	}

	return model.Candle{
		Time:   when,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

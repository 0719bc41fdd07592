package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/tradeforge/edgerunner/internal/core"
)

// CSVProvider reads bars from a local CSV export. Expected columns are
// timestamp,open,high,low,close,volume with an optional header row.
// Timestamps may be unix seconds, unix milliseconds, or RFC 3339.
// Exports from Windows tools are often UTF-16 with a BOM; both byte
// orders are handled.
type CSVProvider struct {
	Path string
}

// FetchHistory loads the file and filters to the requested range. The
// symbol and interval are stamped onto each bar since CSV exports
// rarely carry them.
func (c *CSVProvider) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Bar, error) {
	bars, err := LoadCSV(c.Path, symbol, interval)
	if err != nil {
		return nil, err
	}
	return NewMemoryProvider(bars).FetchHistory(ctx, symbol, start, end, interval)
}

// LoadCSV parses a whole bar file.
func LoadCSV(path, symbol, interval string) ([]core.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrFeedFailed, err)
	}
	defer f.Close()

	bars, err := ParseCSV(f, symbol, interval)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, core.ErrNoData
	}
	return bars, nil
}

// ParseCSV reads bars from a reader, tolerating a UTF-16 BOM, quoted
// fields, and a header row.
func ParseCSV(r io.Reader, symbol, interval string) ([]core.Bar, error) {
	br := bufio.NewReader(r)

	// Peek for a UTF-16 BOM and wrap with a decoder when present.
	head, _ := br.Peek(2)
	var reader io.Reader = br
	if len(head) >= 2 && ((head[0] == 0xFF && head[1] == 0xFE) || (head[0] == 0xFE && head[1] == 0xFF)) {
		endian := unicode.LittleEndian
		if head[0] == 0xFE {
			endian = unicode.BigEndian
		}
		reader = transform.NewReader(br, unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder())
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var bars []core.Bar
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "\uFEFF")
		line = strings.ReplaceAll(line, "\"", "")

		fields := strings.Split(line, ",")
		if len(fields) < 6 {
			return nil, core.WrapError(core.ErrFeedFailed,
				fmt.Errorf("line %d: expected 6 columns, got %d", lineNo, len(fields)))
		}

		// Header row: first field is not a timestamp.
		if lineNo == 1 && !looksNumeric(fields[0]) && parseTime(fields[0]).IsZero() {
			continue
		}

		ts := parseTime(fields[0])
		if ts.IsZero() {
			return nil, core.WrapError(core.ErrFeedFailed,
				fmt.Errorf("line %d: unparseable timestamp %q", lineNo, fields[0]))
		}

		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
			if err != nil {
				return nil, core.WrapError(core.ErrFeedFailed,
					fmt.Errorf("line %d column %d: %w", lineNo, i+2, err))
			}
			vals[i] = v
		}

		bars = append(bars, core.Bar{
			Symbol:   symbol,
			Interval: interval,
			Open:     vals[0],
			High:     vals[1],
			Low:      vals[2],
			Close:    vals[3],
			Volume:   vals[4],
			Time:     ts,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, core.WrapError(core.ErrFeedFailed, err)
	}
	return bars, nil
}

func looksNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// parseTime accepts unix seconds, unix milliseconds, and RFC 3339.
// Returns the zero time on failure.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		// Millisecond stamps are 13 digits for contemporary dates.
		if n > 1e12 {
			return time.UnixMilli(n).UTC()
		}
		return time.Unix(n, 0).UTC()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

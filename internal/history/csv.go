// internal/history/csv.go
//
// Spreadsheet-style history: a CSV file whose first line is the header and
// whose rows are appended in catalog.Columns() order, one line per player.
//
// Reads are header-keyed, so a sheet with reordered or missing columns still
// loads (missing columns default to empty/zero). Appends are serialized by an
// in-process mutex; a second process writing the same file is not guarded
// against.

package history

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/robalobadob/godfather/server/internal/catalog"
)

// SheetStore persists rows to a CSV file.
type SheetStore struct {
	path string
	mu   sync.Mutex // serializes read-max + append
}

// NewSheetStore prepares a store at path, creating its parent directory.
// The file itself is created on first append.
func NewSheetStore(path string) (*SheetStore, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return &SheetStore{path: path}, nil
}

// ReadAll loads every record below the header.
func (s *SheetStore) ReadAll(ctx context.Context) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll(ctx)
}

func (s *SheetStore) readAll(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: open sheet: %w", err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("history: %s: %w", s.path, err)
	}
	return rows, nil
}

// AppendGame appends the batch under the next game id. A write error part
// way through can leave some of the game's rows in the file; the returned
// error is the only signal of that.
func (s *SheetStore) AppendGame(ctx context.Context, rows []Row, at time.Time) (int, error) {
	if len(rows) == 0 {
		return 0, ErrEmptyGame
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readAll(ctx)
	if err != nil {
		return 0, err
	}
	id := NextGameID(existing)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("history: open sheet: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("history: stat sheet: %w", err)
	}

	if err := writeRows(f, info.Size() == 0, stamp(rows, id, at)); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("history: write sheet: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("history: close sheet: %w", err)
	}
	return id, nil
}

// ReadCSV parses a header-keyed CSV of history rows.
// Blank lines are skipped; an empty input yields no rows. A leading UTF-8
// byte order mark, as spreadsheet exports often write, is ignored.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	out := []Row{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}
		keyed := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				keyed[col] = rec[i]
			}
		}
		row, err := FromRecord(keyed)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// WriteCSV writes a header and rows in catalog.Columns() order.
func WriteCSV(w io.Writer, rows []Row) error {
	return writeRows(w, true, rows)
}

// writeRows stops at the first failed write.
func writeRows(w io.Writer, header bool, rows []Row) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(catalog.Columns()); err != nil {
			return fmt.Errorf("header: %w", err)
		}
	}
	for _, r := range rows {
		if err := cw.Write(r.Values()); err != nil {
			return fmt.Errorf("row %q: %w", r.Player, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func blank(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}

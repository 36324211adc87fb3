package pool

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// SnapshotRow is one file of the flat index.
type SnapshotRow struct {
	Dir   string `parquet:"dir" json:"dir"`
	Image string `parquet:"image" json:"image"`
	Index int64  `parquet:"index" json:"index"`
}

// Rows flattens the pool into one row per file, in index order.
func (p *Pool) Rows() []SnapshotRow {
	rows := make([]SnapshotRow, 0, p.Total)
	for _, e := range p.Entries {
		for i, f := range e.Files {
			rows = append(rows, SnapshotRow{Dir: e.Dir, Image: f, Index: int64(e.StartIndex + i)})
		}
	}
	return rows
}

// FromRows rebuilds a pool, grouping consecutive rows of the same directory.
// Directories without files are not represented in a snapshot.
func FromRows(rows []SnapshotRow) *Pool {
	var entries []Entry
	for _, r := range rows {
		if n := len(entries); n > 0 && entries[n-1].Dir == r.Dir {
			entries[n-1].Files = append(entries[n-1].Files, r.Image)
			continue
		}
		entries = append(entries, Entry{Dir: r.Dir, Files: []string{r.Image}})
	}
	return New(entries)
}

// Export writes the pool to a Parquet or JSONL file, chosen by extension.
func Export(path string, p *Pool) error {
	rows := p.Rows()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		if err := parquet.WriteFile(path, rows); err != nil {
			return fmt.Errorf("failed to write parquet snapshot: %w", err)
		}
	case ".jsonl", ".json":
		if err := writeJSONL(path, rows); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported snapshot format: %s (supported: .parquet, .jsonl)", ext)
	}
	slog.Info("Pool snapshot written", "path", path, "rows", len(rows))
	return nil
}

func writeJSONL(path string, rows []SnapshotRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode snapshot row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return file.Close()
}

// LoadSnapshot reads a pool previously written by Export.
func LoadSnapshot(path string) (*Pool, error) {
	var (
		rows []SnapshotRow
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		rows, err = loadParquet(path)
	case ".jsonl", ".json":
		rows, err = loadJSONL(path)
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s (supported: .parquet, .jsonl)", ext)
	}
	if err != nil {
		return nil, err
	}
	p := FromRows(rows)
	slog.Info("Pool snapshot loaded", "path", path, "directories", len(p.Entries), "total", p.Total)
	return p, nil
}

func loadJSONL(path string) ([]SnapshotRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	var rows []SnapshotRow
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var row SnapshotRow
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading snapshot: %w", err)
	}
	return rows, nil
}

func loadParquet(path string) ([]SnapshotRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}
	slog.Debug("Parquet snapshot opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[SnapshotRow](pf)
	defer reader.Close()

	var rows []SnapshotRow
	batch := make([]SnapshotRow, 128)
	for {
		n, err := reader.Read(batch)
		rows = append(rows, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return rows, nil
}

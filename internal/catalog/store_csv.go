package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var csvHeader = []string{"Item ID", "Name", "Category", "Price", "Availability"}

// CSVStore keeps the catalog in a single CSV file with a header row.
// Snapshots are written to a temp file in the same directory and renamed
// over the target.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string { return s.path }

func (s *CSVStore) Ping(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	fi, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

func (s *CSVStore) Load(ctx context.Context) ([]MenuItem, bool, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	items, err := readCSV(f)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.path, err)
	}
	return items, true, nil
}

func (s *CSVStore) Save(ctx context.Context, items []MenuItem) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := writeCSV(tmp, items); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func writeCSV(w io.Writer, items []MenuItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, it := range items {
		r := ToRecord(it)
		if err := cw.Write([]string{r.ID, r.Name, r.Category, r.Price, r.Available}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readCSV(r io.Reader) ([]MenuItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([]MenuItem, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		it, err := FromRecord(Record{
			ID:        row[0],
			Name:      row[1],
			Category:  row[2],
			Price:     row[3],
			Available: row[4],
		})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, it)
	}
	return out, nil
}

func isHeader(row []string) bool {
	for i, h := range csvHeader {
		if row[i] != h {
			return false
		}
	}
	return true
}

package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/finewise-dev/finewise/internal/model"
	"github.com/finewise-dev/finewise/internal/normalize"
)

// Header is the CSV header for expenses.csv.
const Header = "id,amount,transaction_date,category,description"

const (
	numFields  = 5
	dateFormat = "2006-01-02"
	colID      = 0
	colAmount  = 1
	colDate    = 2
	colCat     = 3
	colDesc    = 4
)

// CSVStore reads expenses from a local expenses.csv export.
type CSVStore struct {
	path string
	loc  *time.Location
}

// NewCSVStore creates a CSVStore. Dates are read in loc for range filtering.
func NewCSVStore(path string, loc *time.Location) *CSVStore {
	if loc == nil {
		loc = time.Local
	}
	return &CSVStore{path: path, loc: loc}
}

// Expenses returns the rows matching q, newest first. Rows whose date cannot
// be parsed are returned after the dated rows when q.Undated is set, so the
// normalizer can count them.
// A missing file yields no rows.
func (s *CSVStore) Expenses(ctx context.Context, q Query) ([]model.RawExpense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening expenses %s: %w", s.path, err)
	}
	defer f.Close()

	all, err := ReadExpenses(f)
	if err != nil {
		return nil, fmt.Errorf("reading expenses %s: %w", s.path, err)
	}

	type dated struct {
		rec  model.RawExpense
		date time.Time
		ok   bool
	}
	var rows []dated
	for _, rec := range all {
		d, err := normalize.ParseDate(string(rec.TransactionDate), s.loc)
		if err != nil {
			if q.Undated {
				rows = append(rows, dated{rec: rec})
			}
			continue
		}
		if q.Contains(d) {
			rows = append(rows, dated{rec: rec, date: d, ok: true})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ok != rows[j].ok {
			return rows[i].ok
		}
		return rows[i].date.After(rows[j].date)
	})

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	out := make([]model.RawExpense, len(rows))
	for i, r := range rows {
		out[i] = r.rec
	}
	return out, nil
}

// ReadExpenses reads all rows from an expenses.csv reader.
func ReadExpenses(r io.Reader) ([]model.RawExpense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading expenses CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	// Skip header row.
	expenses := make([]model.RawExpense, 0, len(records)-1)
	for _, rec := range records[1:] {
		expenses = append(expenses, UnmarshalExpense(rec))
	}
	return expenses, nil
}

// WriteExpenses writes expenses to an expenses.csv writer (including header).
func WriteExpenses(w io.Writer, expenses []model.RawExpense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range expenses {
		if err := cw.Write(MarshalExpense(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalExpense converts a RawExpense to a CSV row.
func MarshalExpense(e model.RawExpense) []string {
	row := make([]string, numFields)
	if e.ID != 0 {
		row[colID] = strconv.Itoa(e.ID)
	}
	row[colAmount] = string(e.Amount)
	row[colDate] = string(e.TransactionDate)
	if e.Category != nil {
		row[colCat] = e.Category.Name
	}
	row[colDesc] = e.Description
	return row
}

// UnmarshalExpense converts a CSV row to a RawExpense. Fields are taken
// verbatim; an empty category column means no category.
func UnmarshalExpense(record []string) model.RawExpense {
	e := model.RawExpense{
		Amount:          model.RawValue(record[colAmount]),
		TransactionDate: model.RawValue(record[colDate]),
		Description:     record[colDesc],
	}
	if id, err := strconv.Atoi(strings.TrimSpace(record[colID])); err == nil {
		e.ID = id
	}
	if name := strings.TrimSpace(record[colCat]); name != "" {
		e.Category = &model.Category{Name: name}
	}
	return e
}

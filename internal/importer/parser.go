// Package importer turns CSV statements into expense submissions.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
)

var ErrUnknownFormat = apperr.Invalid("file", "unrecognised statement: expected a standard (date,description,amount) or european (Data;Descrição;Montante) header")

// Row is one parsed statement line. Line is the 1-based CSV record number.
type Row struct {
	Line        int
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Currency    string
	Category    string
	PaidBy      string
}

type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type Statement struct {
	Profile string
	Rows    []Row
	Errors  []RowError
}

// Parse detects the charset and the profile of r and reads every data row. Rows
// without a date are skipped as footers; malformed rows are reported, not fatal.
func Parse(r io.Reader) (*Statement, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	data, err := toUTF8(raw)
	if err != nil {
		return nil, err
	}

	for i := range profiles {
		p := &profiles[i]

		records, err := readCSV(data, p.Comma)
		if err != nil {
			continue
		}

		cols, headerIdx, ok := findHeader(p, records)
		if !ok {
			continue
		}

		st := &Statement{Profile: p.Name}
		for j, rec := range records[headerIdx+1:] {
			line := headerIdx + j + 2

			row, skip, err := parseRow(p, cols, rec, line)
			switch {
			case skip:
			case err != nil:
				st.Errors = append(st.Errors, RowError{Line: line, Message: err.Error()})
			default:
				st.Rows = append(st.Rows, row)
			}
		}

		return st, nil
	}

	return nil, ErrUnknownFormat
}

func readCSV(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}
}

type colIndex map[string]int

func (c colIndex) cell(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}

	return strings.TrimSpace(rec[i])
}

// findHeader returns the first row carrying every required column of p.
func findHeader(p *Profile, records [][]string) (colIndex, int, bool) {
	for idx, rec := range records {
		cols := make(colIndex)

		for i, cell := range rec {
			if name := strings.ToLower(strings.TrimSpace(cell)); name != "" {
				cols[name] = i
			}
		}

		matched := true

		for _, name := range p.requiredCols() {
			if _, ok := cols[name]; !ok {
				matched = false
				break
			}
		}

		if matched {
			return cols, idx, true
		}
	}

	return nil, 0, false
}

func parseRow(p *Profile, cols colIndex, rec []string, line int) (Row, bool, error) {
	dateCell := cols.cell(rec, p.DateCol)
	if dateCell == "" {
		return Row{}, true, nil
	}

	date, err := time.Parse(p.DateLayout, dateCell)
	if err != nil {
		return Row{}, false, fmt.Errorf("invalid date %q", dateCell)
	}

	amountCell := cols.cell(rec, p.AmountCol)

	amount, err := p.parseAmount(amountCell)
	if err != nil {
		return Row{}, false, fmt.Errorf("invalid amount %q", amountCell)
	}

	return Row{
		Line:        line,
		Date:        date,
		Description: cols.cell(rec, p.DescCol),
		Amount:      amount.Abs(),
		Currency:    strings.ToUpper(cols.cell(rec, p.CurrencyCol)),
		Category:    cols.cell(rec, p.CategoryCol),
		PaidBy:      cols.cell(rec, p.PaidByCol),
	}, false, nil
}

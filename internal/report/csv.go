package report

import (
	"io"

	"github.com/crispan/mealprep/internal/domain"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// WriteCSV writes the comma-separated export, header row first.
func WriteCSV(w io.Writer, items []domain.Ingredient) error {
	rows := toRows(items)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(err, "write csv report")
	}
	return nil
}

// ParseCSV reads back a file produced by WriteCSV.
func ParseCSV(r io.Reader) ([]domain.Ingredient, error) {
	var rows []*Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.Wrap(err, "parse csv report")
	}
	return fromRows(rows), nil
}

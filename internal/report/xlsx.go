package report

import (
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/crispan/mealprep/internal/domain"
	"github.com/pkg/errors"
)

// WriteXLSX writes a workbook holding a single sheet named SheetName.
func WriteXLSX(w io.Writer, items []domain.Ingredient) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", SheetName)

	for col, title := range Header {
		f.SetCellValue(SheetName, cellName(col, 1), title)
	}
	if style, err := f.NewStyle(`{"font":{"bold":true}}`); err == nil {
		f.SetCellStyle(SheetName, cellName(0, 1), cellName(len(Header)-1, 1), style)
	}
	f.SetColWidth(SheetName, "B", "B", 28)
	f.SetColWidth(SheetName, "C", "C", 20)
	f.SetColWidth(SheetName, "E", "E", 18)

	for i, it := range items {
		row := i + 2
		f.SetCellValue(SheetName, cellName(0, row), it.ID)
		f.SetCellValue(SheetName, cellName(1, row), it.Name)
		f.SetCellValue(SheetName, cellName(2, row), it.QuantityPerPerson)
		f.SetCellValue(SheetName, cellName(3, row), it.Unit)
		f.SetCellValue(SheetName, cellName(4, row), it.Category)
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write xlsx report")
	}
	return nil
}

// cellName converts a zero-based column and one-based row to an A1 reference.
// The export never exceeds column Z.
func cellName(col, row int) string {
	return fmt.Sprintf("%c%d", rune('A'+col), row)
}

package report

import "github.com/crispan/mealprep/internal/domain"

const (
	// SheetName names the dataset in the spreadsheet export.
	SheetName = "Ingredients"

	XLSXFilename = "ingredient_report.xlsx"
	CSVFilename  = "ingredient_report.csv"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	CSVContentType  = "text/csv"
)

// Header is the fixed column header row of every export.
var Header = []string{"ID", "Name", "Quantity per Person", "Unit", "Category"}

// Row is the flat export shape of an ingredient.
type Row struct {
	ID                int64   `csv:"ID" json:"id"`
	Name              string  `csv:"Name" json:"name"`
	QuantityPerPerson float64 `csv:"Quantity per Person" json:"quantity_per_person"`
	Unit              string  `csv:"Unit" json:"unit"`
	Category          string  `csv:"Category" json:"category"`
}

func toRows(items []domain.Ingredient) []*Row {
	rows := make([]*Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, &Row{
			ID:                it.ID,
			Name:              it.Name,
			QuantityPerPerson: it.QuantityPerPerson,
			Unit:              it.Unit,
			Category:          it.Category,
		})
	}
	return rows
}

func fromRows(rows []*Row) []domain.Ingredient {
	items := make([]domain.Ingredient, 0, len(rows))
	for _, r := range rows {
		items = append(items, domain.Ingredient{
			ID:                r.ID,
			Name:              r.Name,
			QuantityPerPerson: r.QuantityPerPerson,
			Unit:              r.Unit,
			Category:          r.Category,
		})
	}
	return items
}

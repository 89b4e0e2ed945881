package scaling

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/crispan/mealprep/internal/domain"
	"github.com/shopspring/decimal"
)

// MinHeadcount is the smallest number of people a calculation accepts.
const MinHeadcount = 1

var ErrInvalidHeadcount = errors.New("total people must be at least 1")

// Line is the scaled requirement for one ingredient.
type Line struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	QuantityPerPerson float64         `json:"quantity_per_person"`
	Total             decimal.Decimal `json:"total"`
}

// TotalText renders the total with two decimals, rounding the binary
// float product the way %.2f does.
func (l Line) TotalText() string {
	return strconv.FormatFloat(l.Total.InexactFloat64(), 'f', 2, 64)
}

// Display renders the line as "<name>: <total> <unit>".
func (l Line) Display() string {
	return fmt.Sprintf("%s: %s %s", l.Name, l.TotalText(), l.Unit)
}

// Scale multiplies each ingredient's per-person quantity by totalPeople,
// keeping the order of items.
func Scale(items []domain.Ingredient, totalPeople int) ([]Line, error) {
	if totalPeople < MinHeadcount {
		return nil, ErrInvalidHeadcount
	}
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{
			ID:                it.ID,
			Name:              it.Name,
			Unit:              it.Unit,
			QuantityPerPerson: it.QuantityPerPerson,
			Total:             decimal.NewFromFloat(it.QuantityPerPerson * float64(totalPeople)),
		})
	}
	return lines, nil
}

// Select picks the records named by ids from all, in the order of ids.
// Unknown ids are skipped and a repeated id is picked once.
func Select(all []domain.Ingredient, ids []int64) []domain.Ingredient {
	byID := make(map[int64]domain.Ingredient, len(all))
	for _, it := range all {
		byID[it.ID] = it
	}
	out := make([]domain.Ingredient, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
			delete(byID, id)
		}
	}
	return out
}

package report

import (
	"sort"

	"github.com/crispan/mealprep/internal/domain"
	"github.com/montanaflynn/stats"
)

// CategorySummary aggregates the per-person quantities of one category.
// Units are free text, so sums mix units and only serve as a rough overview.
type CategorySummary struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Total    float64 `json:"total_per_person"`
	Mean     float64 `json:"mean_per_person"`
	Max      float64 `json:"max_per_person"`
}

// Summarize groups items by category, sorted by category name.
func Summarize(items []domain.Ingredient) []CategorySummary {
	groups := map[string]stats.Float64Data{}
	for _, it := range items {
		groups[it.Category] = append(groups[it.Category], it.QuantityPerPerson)
	}

	out := make([]CategorySummary, 0, len(groups))
	for category, data := range groups {
		total, _ := stats.Sum(data)
		mean, _ := stats.Mean(data)
		max, _ := stats.Max(data)
		out = append(out, CategorySummary{
			Category: category,
			Count:    data.Len(),
			Total:    total,
			Mean:     mean,
			Max:      max,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/crispan/mealprep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []domain.Ingredient{
	{ID: 1, Name: "Carrot", QuantityPerPerson: 0.1, Unit: "kg", Category: "Soup"},
	{ID: 2, Name: "Stock, chicken", QuantityPerPerson: 0.3, Unit: "l", Category: "Soup"},
	{ID: 5, Name: " Basmati \"aged\"", QuantityPerPerson: 0.125, Unit: "kg", Category: "Rice"},
	{ID: 9, Name: "Salt", QuantityPerPerson: 0, Unit: "g", Category: "Soup"},
}

type tuple struct {
	Name     string
	Qty      float64
	Unit     string
	Category string
}

func tuples(items []domain.Ingredient) []tuple {
	out := make([]tuple, 0, len(items))
	for _, it := range items {
		out = append(out, tuple{it.Name, it.QuantityPerPerson, it.Unit, it.Category})
	}
	return out
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(sample)+1)
	assert.Equal(t, "ID,Name,Quantity per Person,Unit,Category", strings.TrimRight(lines[0], "\r"))
}

func TestCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample))

	parsed, err := ParseCSV(&buf)
	require.NoError(t, err)
	assert.ElementsMatch(t, tuples(sample), tuples(parsed))
}

func TestParseCSV_Garbage(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("ID,Name,Quantity per Person,Unit,Category\nx,Rice,lots,kg,Rice\n"))
	assert.Error(t, err)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	sheets := f.GetSheetMap()
	require.Len(t, sheets, 1)
	for _, name := range sheets {
		assert.Equal(t, SheetName, name)
	}

	rows := f.GetRows(SheetName)
	require.Len(t, rows, len(sample)+1)
	assert.Equal(t, Header, rows[0][:len(Header)])
	assert.Equal(t, "Carrot", rows[1][1])
	assert.Equal(t, "Rice", rows[3][4])
}

func TestSummarize(t *testing.T) {
	got := Summarize(sample)
	require.Len(t, got, 2)

	assert.Equal(t, "Rice", got[0].Category)
	assert.Equal(t, 1, got[0].Count)
	assert.InDelta(t, 0.125, got[0].Total, 1e-9)

	assert.Equal(t, "Soup", got[1].Category)
	assert.Equal(t, 3, got[1].Count)
	assert.InDelta(t, 0.4, got[1].Total, 1e-9)
	assert.InDelta(t, 0.4/3, got[1].Mean, 1e-9)
	assert.InDelta(t, 0.3, got[1].Max, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}

func TestSnapshots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	base := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	var written []string
	for i := 0; i < 4; i++ {
		name, err := WriteSnapshot(dir, sample, base.Add(time.Duration(i)*24*time.Hour))
		require.NoError(t, err)
		written = append(written, name)
	}
	// unrelated files are left alone
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	removed, err := PruneSnapshots(dir, 2)
	require.NoError(t, err)
	assert.Equal(t, written[:2], removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	removed, err = PruneSnapshots(dir, 0)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

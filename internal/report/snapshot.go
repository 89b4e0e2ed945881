package report

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/crispan/mealprep/internal/domain"
	"github.com/pkg/errors"
)

const snapshotPrefix = "ingredient_report_"

// WriteSnapshot stores an xlsx export in dir, named after now.
func WriteSnapshot(dir string, items []domain.Ingredient, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create snapshot dir")
	}
	name := filepath.Join(dir, snapshotPrefix+now.Format("20060102_150405")+".xlsx")
	f, err := os.Create(name)
	if err != nil {
		return "", errors.Wrap(err, "create snapshot file")
	}
	defer f.Close()

	if err := WriteXLSX(f, items); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// PruneSnapshots keeps the newest keep snapshots in dir and removes the rest.
// A keep below 1 disables pruning.
func PruneSnapshots(dir string, keep int) ([]string, error) {
	if keep < 1 {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read snapshot dir")
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), snapshotPrefix) && strings.HasSuffix(e.Name(), ".xlsx") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return nil, nil
	}
	// timestamped names sort chronologically
	sort.Strings(names)
	var removed []string
	for _, name := range names[:len(names)-keep] {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			return removed, errors.Wrapf(err, "remove snapshot %s", name)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

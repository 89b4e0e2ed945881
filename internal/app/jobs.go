package app

import (
	"context"
	"time"

	"github.com/crispan/mealprep/internal/report"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() error {
	spec := a.appConfig.Report.SnapshotCron
	if spec == "" {
		return nil
	}
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))
	_, err := a.sched.AddFunc(spec, func() {
		if _, err := a.RunReportSnapshot(); err != nil {
			zap.L().Error("report snapshot failed", zap.Error(err))
		}
	})
	if err != nil {
		return errors.Wrapf(err, "invalid report.snapshot_cron %q", spec)
	}
	zap.L().Info("report snapshot job scheduled", zap.String("spec", spec))
	return nil
}

// RunReportSnapshot writes the current ingredient set to the report
// directory and prunes old snapshots.
func (a *Application) RunReportSnapshot() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	items, err := a.repo.List(ctx)
	if err != nil {
		return "", err
	}
	dir := a.appConfig.GetReportDir()
	name, err := report.WriteSnapshot(dir, items, time.Now())
	if err != nil {
		return "", err
	}
	removed, err := report.PruneSnapshots(dir, a.appConfig.Report.SnapshotKeep)
	if err != nil {
		zap.L().Warn("prune report snapshots failed", zap.Error(err))
	}
	zap.L().Info("report snapshot written",
		zap.String("file", name),
		zap.Int("ingredients", len(items)),
		zap.Int("pruned", len(removed)))
	return name, nil
}

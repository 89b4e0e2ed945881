package app

import (
	"github.com/crispan/mealprep/config"
	"github.com/crispan/mealprep/internal/repository"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// RepositoryProvider provides the ingredient store
type RepositoryProvider interface {
	Ingredients() repository.IngredientRepository
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	RepositoryProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb() error
	DropAll() error
	// RunReportSnapshot writes an xlsx snapshot of all ingredients now
	RunReportSnapshot() (string, error)
}

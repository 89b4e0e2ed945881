package config

import (
	"encoding/hex"
	"os"
	"path"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DefaultWebSecret is the placeholder shipped in DefaultAppConfig. It is
// never used to sign anything; see EnsureWebSecret.
const DefaultWebSecret = "9b6de5cc-0731-1203-xxtt-0f568ac9da37"

// DBConfig Database configuration
type DBConfig struct {
	Type     string `yaml:"type"` // sqlite or postgres
	Name     string `yaml:"name"` // sqlite file name, or postgres database name
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// SysConfig System configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig Web server configuration
type WebConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"` // signs session cookies and API tokens
}

// LogConfig Logging configuration
type LogConfig struct {
	Mode       string `yaml:"mode"` // development or production
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// KitchenConfig holds the static credential pair guarding ingredient management.
type KitchenConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Title    string `yaml:"title"`
}

// ReportConfig controls the scheduled report snapshot.
type ReportConfig struct {
	SnapshotCron string `yaml:"snapshot_cron"` // empty disables the job
	SnapshotKeep int    `yaml:"snapshot_keep"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system"`
	Web      WebConfig     `yaml:"web"`
	Database DBConfig      `yaml:"database"`
	Logger   LogConfig     `yaml:"logger"`
	Kitchen  KitchenConfig `yaml:"kitchen"`
	Report   ReportConfig  `yaml:"report"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetReportDir() string {
	return path.Join(c.System.Workdir, "reports")
}

// InitDirs creates the working directory layout.
func (c *AppConfig) InitDirs() error {
	for _, dir := range []string{c.GetLogDir(), c.GetDataDir(), c.GetReportDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create dir %s", dir)
		}
	}
	return nil
}

// DefaultAppConfig uses a local sqlite file and the kitchen/chef1234
// credential pair.
var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "MealPrep",
		Location: "Local",
		Workdir:  "./var/mealprep",
		Debug:    false,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   8501,
		Secret: DefaultWebSecret,
	},
	Database: DBConfig{
		Type:     "sqlite",
		Name:     "ingredient.db",
		Host:     "127.0.0.1",
		Port:     5432,
		User:     "postgres",
		Passwd:   "",
		MaxConn:  1,
		IdleConn: 1,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "./var/mealprep/logs/mealprep.log",
	},
	Kitchen: KitchenConfig{
		Username: "kitchen",
		Password: "chef1234",
		Title:    "CRISPAN Hotel Meal Preparation Manager",
	},
	Report: ReportConfig{
		SnapshotCron: "",
		SnapshotKeep: 7,
	},
}

// LoadConfig reads cfile when it exists, falling back to the defaults,
// then applies MEALPREP_* environment overrides.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := *DefaultAppConfig
	if cfile == "" {
		cfile = "mealprep.yml"
	}
	if data, err := os.ReadFile(cfile); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", cfile)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "read config %s", cfile)
	}
	cfg.applyEnvOverrides()
	return &cfg, nil
}

func (c *AppConfig) applyEnvOverrides() {
	setEnvString("MEALPREP_SYSTEM_WORKDIR", &c.System.Workdir)
	setEnvString("MEALPREP_SYSTEM_LOCATION", &c.System.Location)
	setEnvBool("MEALPREP_SYSTEM_DEBUG", &c.System.Debug)

	setEnvString("MEALPREP_WEB_HOST", &c.Web.Host)
	setEnvInt("MEALPREP_WEB_PORT", &c.Web.Port)
	setEnvString("MEALPREP_WEB_SECRET", &c.Web.Secret)

	setEnvString("MEALPREP_DB_TYPE", &c.Database.Type)
	setEnvString("MEALPREP_DB_NAME", &c.Database.Name)
	setEnvString("MEALPREP_DB_HOST", &c.Database.Host)
	setEnvInt("MEALPREP_DB_PORT", &c.Database.Port)
	setEnvString("MEALPREP_DB_USER", &c.Database.User)
	setEnvString("MEALPREP_DB_PASSWD", &c.Database.Passwd)
	setEnvBool("MEALPREP_DB_DEBUG", &c.Database.Debug)

	setEnvString("MEALPREP_LOGGER_MODE", &c.Logger.Mode)
	setEnvBool("MEALPREP_LOGGER_FILE_ENABLE", &c.Logger.FileEnable)
	setEnvString("MEALPREP_LOGGER_FILENAME", &c.Logger.Filename)

	setEnvString("MEALPREP_KITCHEN_USERNAME", &c.Kitchen.Username)
	setEnvString("MEALPREP_KITCHEN_PASSWORD", &c.Kitchen.Password)

	setEnvString("MEALPREP_REPORT_SNAPSHOT_CRON", &c.Report.SnapshotCron)
	setEnvInt("MEALPREP_REPORT_SNAPSHOT_KEEP", &c.Report.SnapshotKeep)
}

func setEnvString(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
		*val = strings.TrimSpace(v)
	}
}

func setEnvInt(name string, val *int) {
	if v, ok := os.LookupEnv(name); ok {
		if n, err := cast.ToIntE(strings.TrimSpace(v)); err == nil {
			*val = n
		}
	}
}

func setEnvBool(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok {
		if b, err := cast.ToBoolE(strings.TrimSpace(v)); err == nil {
			*val = b
		}
	}
}

// EnsureWebSecret replaces an empty or shipped Web.Secret with a random key.
// It reports true when a key was generated; sessions and tokens signed with
// it do not survive a restart.
func (c *AppConfig) EnsureWebSecret() (bool, error) {
	if c.Web.Secret != "" && c.Web.Secret != DefaultWebSecret {
		return false, nil
	}
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return false, errors.New("generate web secret")
	}
	c.Web.Secret = hex.EncodeToString(key)
	return true, nil
}

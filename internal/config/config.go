// Package config defines the tracker configuration and its defaults.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

// Storage backends understood by the tracker.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// StoreBackend selects the account store: json or sqlite.
	StoreBackend string `koanf:"store_backend"`

	// AccountsPath is the JSON account document.
	AccountsPath string `koanf:"accounts_path"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// AuthorUsername and AuthorPassword identify the read-only author
	// account that sees every user's records.
	AuthorUsername string `koanf:"author_username"`
	AuthorPassword string `koanf:"author_password"`

	// ReportDir is where exported artifacts are written.
	ReportDir string `koanf:"report_dir"`

	// LinesPerPage caps the lines on one report page.
	LinesPerPage int `koanf:"lines_per_page"`

	// HighlightCount is how many students are tagged top and bottom.
	HighlightCount int `koanf:"highlight_count"`

	// MetricsFile, when set, receives a Prometheus text dump on exit.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		StoreBackend:   BackendJSON,
		AccountsPath:   "accounts.json",
		SQLitePath:     "accounts.db",
		AuthorUsername: "prosun07a",
		AuthorPassword: "147911",
		ReportDir:      ".",
		LinesPerPage:   36,
		HighlightCount: 3,
	}
}

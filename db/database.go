package db

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the "libsql" database/sql driver for hosted Turso deployments
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/XAdnanAhmedX/JusticeHammer/config"
)

// Databases holds the two connection handles the application uses. Both are
// constructed once at startup and injected; there is no lazy global.
type Databases struct {
	Primary   *gorm.DB
	Analytics *gorm.DB
}

// Connect opens the primary and analytics datastores.
func Connect(cfg *config.Config) (*Databases, error) {
	logLevel := logger.Info
	if cfg.Environment == "production" {
		logLevel = logger.Warn
	}

	primary, err := open(cfg.DBPath, cfg.TursoDatabaseURL, cfg.TursoAuthToken, logLevel)
	if err != nil {
		return nil, fmt.Errorf("primary database: %w", err)
	}
	log.Println("Primary database connection established")

	analytics, err := open(cfg.AnalyticsDBPath, cfg.AnalyticsTursoDatabaseURL, cfg.AnalyticsTursoAuthToken, logLevel)
	if err != nil {
		return nil, fmt.Errorf("analytics database: %w", err)
	}
	log.Println("Analytics database connection established")

	return &Databases{Primary: primary, Analytics: analytics}, nil
}

// open connects to a single datastore: a remote Turso database when a URL is
// configured, otherwise a local SQLite file with WAL mode enabled.
func open(path, tursoURL, tursoToken string, logLevel logger.LogLevel) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	if tursoURL != "" {
		dsn := tursoURL
		if tursoToken != "" {
			dsn = fmt.Sprintf("%s?authToken=%s", tursoURL, tursoToken)
		}
		db, err := gorm.Open(&sqlite.Dialector{DriverName: "libsql", DSN: dsn}, gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to libsql database: %w", err)
		}
		return db, nil
	}

	// WAL mode for better concurrency under concurrent request handling
	db, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL"), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate runs schema migrations on the primary datastore.
func (d *Databases) Migrate(models ...interface{}) error {
	if err := d.Primary.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

// Ping issues a trivial query against the given handle, reporting raw
// connectivity the way the health check needs it.
func Ping(db *gorm.DB) error {
	var one int
	if err := db.Raw("SELECT 1").Scan(&one).Error; err != nil {
		return err
	}
	return nil
}

// Close closes both connection handles.
func (d *Databases) Close() error {
	for _, handle := range []*gorm.DB{d.Primary, d.Analytics} {
		if handle == nil {
			continue
		}
		sqlDB, err := handle.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
	}
	return nil
}

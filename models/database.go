package models

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/softura/inventario/config"
)

// Open connects to the configured store and sizes its connection pool.
// Statements borrow a pooled connection and hand it back when they finish,
// whether they succeed or not.
func Open(cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(cfg, log),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// Close releases every pooled connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return gormmysql.Open(MySQLDSN(cfg)), nil
	case "postgres":
		// lib/pq registers itself as "postgres" for database/sql.
		return postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        PostgresDSN(cfg),
		}), nil
	case "sqlite":
		return sqlite.New(sqlite.Config{
			DriverName: sqliteDriverName,
			DSN:        SQLiteDSN(cfg),
		}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// MySQLDSN returns cfg.DSN or builds one from the discrete connection fields.
func MySQLDSN(cfg config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	c := mysqldriver.NewConfig()
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.DBName = cfg.Name
	c.ParseTime = true
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// PostgresDSN returns cfg.DSN or builds a lib/pq key/value connection string.
func PostgresDSN(cfg config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	parts := []string{
		"host=" + quotePQ(cfg.Host),
		"port=" + strconv.Itoa(port),
		"user=" + quotePQ(cfg.User),
		"dbname=" + quotePQ(cfg.Name),
		"sslmode=disable",
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+quotePQ(cfg.Password))
	}
	return strings.Join(parts, " ")
}

// sqliteDriverName is go-sqlite3 with a Unicode aware lower(). The built-in
// one folds ASCII letters only, so "Á" would never match "á".
const sqliteDriverName = "sqlite3_inventario"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

// SQLiteDSN returns cfg.DSN with foreign key enforcement switched on.
// SQLite ignores REFERENCES clauses unless the connection asks for them.
func SQLiteDSN(cfg config.DatabaseConfig) string {
	dsn := cfg.DSN
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func quotePQ(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// EnsureSchema creates the categorias and productos tables when absent.
func EnsureSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&Category{}, &Product{}); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SeedCategories inserts names into categorias when the table is empty.
// It returns the number of rows inserted.
func SeedCategories(ctx context.Context, db *gorm.DB, names []string) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&Category{}).Count(&count).Error; err != nil {
		return 0, newStoreError("SeedCategories", "category", 0, err)
	}
	if count > 0 || len(names) == 0 {
		return 0, nil
	}

	categories := make([]Category, len(names))
	for i, name := range names {
		categories[i] = Category{Name: name}
	}
	if err := db.WithContext(ctx).Create(&categories).Error; err != nil {
		return 0, newStoreError("SeedCategories", "category", 0, err)
	}
	return len(categories), nil
}

// gormWriter forwards GORM's log lines to slog.
type gormWriter struct {
	log *slog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}

func newGormLogger(cfg config.DatabaseConfig, log *slog.Logger) logger.Interface {
	if log == nil {
		log = slog.Default()
	}
	return logger.New(gormWriter{log: log}, logger.Config{
		SlowThreshold:             cfg.SlowThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

package db

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"taskmanager/internal/config"
)

const sqliteDefaultPragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by name.
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	return Open(conf.DB.Driver, conf.DB.DSN())
}

// Open connects to the database behind dsn using one of the supported drivers.
func Open(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case config.DriverSQLite:
		if !strings.Contains(dsn, "_pragma=") {
			separator := "?"
			if strings.Contains(dsn, "?") {
				separator = "&"
			}
			dsn += separator + sqliteDefaultPragmas
		}
	case config.DriverMySQL, config.DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == config.DriverSQLite {
		// One writer at a time; also keeps ":memory:" databases on a single connection.
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

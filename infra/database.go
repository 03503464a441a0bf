package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	infrarepo "github.com/amirasaad/walletledger/infra/repository"
	"github.com/amirasaad/walletledger/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

// NewDBConnection opens the ledger database. A DATABASE_URL starting with
// sqlite:// opens a SQLite file (or :memory:), anything else is treated as a
// Postgres DSN.
func NewDBConnection(cnf *config.DB, appEnv string) (*gorm.DB, error) {
	if cnf == nil || cnf.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	dialector, isSQLite := dialectorFor(cnf.Url)
	connection, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	if isSQLite {
		// SQLite serializes writers; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cnf.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cnf.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cnf.ConnMaxLifetime)
	}

	if cnf.AutoMigrate {
		if err := infrarepo.AutoMigrate(connection); err != nil {
			return nil, err
		}
	}
	return connection, nil
}

func dialectorFor(url string) (gorm.Dialector, bool) {
	if path, ok := strings.CutPrefix(url, sqliteScheme); ok {
		return sqlite.Open(path), true
	}
	return postgres.Open(url), false
}

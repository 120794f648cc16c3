package database

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"modernc.org/sqlite"
)

// DB wraps the SQLite connection pool.
type DB struct {
	*sql.DB
}

var registerFuncs sync.Once

// Open opens (creating if needed) the SQLite database at path with foreign
// keys enforced. Migrations are applied separately by RunMigrations.
func Open(path string) (*DB, error) {
	var regErr error
	registerFuncs.Do(func() {
		regErr = sqlite.RegisterDeterministicScalarFunction("casefold", 1, casefold)
	})
	if regErr != nil {
		return nil, fmt.Errorf("failed to register sql functions: %w", regErr)
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers anyway; a single connection keeps
	// transactions and pragmas on one handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// casefold lowercases with full Unicode rules; SQLite's lower() is ASCII only.
func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}

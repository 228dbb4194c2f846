package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Connect opens the SQLite database at path and verifies it is reachable.
// WAL mode and a busy timeout let concurrent requests serialize on the
// store instead of failing with SQLITE_BUSY. foreign_keys is enabled so
// notes.user_id actually references users.id.
func Connect(path string, maxOpen, maxIdle int) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"file:%s?_time_format=sqlite&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

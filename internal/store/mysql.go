package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQL persists the key/value layout in a single kv_entries table.
// It exists for deployments that already run MySQL and want durable
// storage without introducing Redis.
type MySQL struct {
	db *sql.DB
}

// OpenMySQL connects to MySQL, verifies the connection and ensures the
// kv_entries table exists.
func OpenMySQL(user, pass, host, port, name string) (*MySQL, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	const ddl = `CREATE TABLE IF NOT EXISTS kv_entries (
        k VARCHAR(255) NOT NULL PRIMARY KEY,
        v MEDIUMBLOB NOT NULL,
        updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    )`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, err
	}
	return &MySQL{db: db}, nil
}

// DB exposes the underlying handle for lifecycle management (Close).
func (m *MySQL) DB() *sql.DB { return m.db }

func (m *MySQL) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := m.db.QueryRowContext(ctx, `SELECT v FROM kv_entries WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (m *MySQL) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO kv_entries (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		key, value)
	return err
}

func (m *MySQL) Delete(ctx context.Context, key string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE k = ?`, key)
	return err
}

package bitbox

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Cache stores encoded sprites keyed by the SHA-1 of their frames and
// encoding options.
type Cache struct {
	db *sql.DB
}

func NewCache(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sprite (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db: db,
	}, nil
}

// Find returns the sprite stored under key, or nil if there is none.
func (c *Cache) Find(key string) ([]byte, error) {
	var data []byte
	switch err := c.db.QueryRow("SELECT data FROM sprite WHERE sha1 = ?", key).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return data, nil
	default:
		return nil, err
	}
}

func (c *Cache) Store(key string, data []byte) error {
	if _, err := c.db.Exec("INSERT OR REPLACE INTO sprite (sha1, data) VALUES (?, ?)", key, data); err != nil {
		return err
	}
	return nil
}

// Len returns the number of cached sprites.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM sprite").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Purge removes every cached sprite.
func (c *Cache) Purge() error {
	_, err := c.db.Exec("DELETE FROM sprite")
	return err
}

func (c *Cache) Close() error {
	return c.db.Close()
}

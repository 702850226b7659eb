package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

// Postgres keeps values server side in the browser_storage table. The browser
// only carries its id.
type Postgres struct {
	db      *sql.DB
	cookies sessions.Store
}

func NewPostgres(db *sql.DB, cookies sessions.Store) *Postgres {
	return &Postgres{db: db, cookies: cookies}
}

func (p *Postgres) Open(r *http.Request) (Storage, error) {
	b := identify(p.cookies, r)
	s := &pgStorage{
		db:      p.db,
		browser: b,
		values:  make(map[string]string),
		pending: make(map[string]*string),
	}
	if b.isNew {
		return s, nil
	}
	if err := s.load(r.Context()); err != nil {
		return nil, err
	}
	return s, nil
}

type pgStorage struct {
	db      *sql.DB
	browser *browser
	values  map[string]string
	// nil value means delete
	pending map[string]*string
}

func (s *pgStorage) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM browser_storage WHERE browser_id = $1`, s.browser.id)
	if err != nil {
		return fmt.Errorf("load browser storage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan browser storage: %w", err)
		}
		s.values[key] = value
	}
	return rows.Err()
}

func (s *pgStorage) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *pgStorage) Set(key, value string) {
	s.values[key] = value
	s.pending[key] = &value
}

func (s *pgStorage) Remove(key string) {
	delete(s.values, key)
	s.pending[key] = nil
}

func (s *pgStorage) Flush(w http.ResponseWriter, r *http.Request) error {
	if err := s.browser.save(w, r); err != nil {
		return err
	}
	if len(s.pending) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		return fmt.Errorf("begin storage flush: %w", err)
	}
	defer tx.Rollback()

	for key, value := range s.pending {
		if value == nil {
			_, err = tx.ExecContext(r.Context(),
				`DELETE FROM browser_storage WHERE browser_id = $1 AND key = $2`,
				s.browser.id, key)
		} else {
			_, err = tx.ExecContext(r.Context(),
				`INSERT INTO browser_storage (browser_id, key, value, updated_at)
				 VALUES ($1, $2, $3, NOW())
				 ON CONFLICT (browser_id, key)
				 DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
				s.browser.id, key, *value)
		}
		if err != nil {
			return fmt.Errorf("write storage key %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit storage flush: %w", err)
	}
	s.pending = make(map[string]*string)
	return nil
}

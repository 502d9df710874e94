package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	// sqlite driver
	_ "modernc.org/sqlite"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/metrics"
)

// SQLiteStore keeps every collection in one documents table, one JSON body
// per row. Rows are returned in insertion order.
type SQLiteStore struct {
	db   *sql.DB
	path string

	mu     sync.RWMutex
	closed bool
}

var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA temp_store=MEMORY",
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	collection TEXT NOT NULL,
	doc_id     TEXT NOT NULL,
	body       TEXT NOT NULL,
	UNIQUE (collection, doc_id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents (collection, seq);
`

// NewSQLiteStore opens (or creates) the database file at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	const op = "repository.sqlite.open"
	if path == "" {
		return nil, fmt.Errorf("%s: empty path", op)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)

	for _, pragma := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %s: %w", op, pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: schema: %w", op, err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) check(c Collection) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if c == "" {
		return ErrInvalidCollection
	}
	return nil
}

// Find returns the documents of c in insertion order, or ordered by a
// WithSortAsc field.
func (s *SQLiteStore) Find(ctx context.Context, c Collection, opts ...FindOption) (docs []model.Document, err error) {
	start := time.Now()
	defer func() { observeFind(c, start, err) }()

	if err := s.check(c); err != nil {
		return nil, err
	}
	o := applyFind(opts)

	var (
		query strings.Builder
		args  = []any{string(c)}
	)
	query.WriteString(`SELECT body FROM documents WHERE collection = ?`)
	if o.sortField != "" {
		// missing fields (NULL) sort first, as in MongoDB
		query.WriteString(` ORDER BY json_extract(body, ?) ASC, seq ASC`)
		args = append(args, jsonPath(o.sortField))
	} else {
		query.WriteString(` ORDER BY seq ASC`)
	}
	if o.limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, o.limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("repository.sqlite.find %q: %w", c, err)
	}
	defer rows.Close()

	docs = make([]model.Document, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("repository.sqlite.find %q: %w", c, err)
		}
		var doc model.Document
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("repository.sqlite.find %q: decode: %w", c, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.sqlite.find %q: %w", c, err)
	}
	return docs, nil
}

// InsertMany writes docs in one transaction. BSON values are flattened
// with Plain before encoding.
func (s *SQLiteStore) InsertMany(ctx context.Context, c Collection, docs []model.Document) (n int, err error) {
	defer func() { observeError("insert", err) }()

	if err := s.check(c); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("repository.sqlite.insert %q: %w", c, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents (collection, doc_id, body) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("repository.sqlite.insert %q: %w", c, err)
	}
	defer stmt.Close()

	for i, d := range docs {
		doc := PlainDocument(map[string]any(d))
		id, ok := doc["_id"]
		if !ok || id == nil {
			id = uuid.NewString()
			doc["_id"] = id
		}
		body, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("repository.sqlite.insert %q: document %d: %w", c, i, err)
		}
		if _, err := stmt.ExecContext(ctx, string(c), fmt.Sprint(id), string(body)); err != nil {
			return 0, fmt.Errorf("repository.sqlite.insert %q: document %d: %w", c, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("repository.sqlite.insert %q: %w", c, err)
	}
	metrics.RecordStoreInserted(string(c), len(docs))
	return len(docs), nil
}

// Drop deletes every document of c.
func (s *SQLiteStore) Drop(ctx context.Context, c Collection) error {
	if err := s.check(c); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, string(c)); err != nil {
		observeError("drop", err)
		return fmt.Errorf("repository.sqlite.drop %q: %w", c, err)
	}
	return nil
}

// Count returns the number of documents in c.
func (s *SQLiteStore) Count(ctx context.Context, c Collection) (int64, error) {
	if err := s.check(c); err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE collection = ?`, string(c)).Scan(&n); err != nil {
		observeError("count", err)
		return 0, fmt.Errorf("repository.sqlite.count %q: %w", c, err)
	}
	metrics.UpdateStoreDocuments(string(c), n)
	return n, nil
}

// Ping checks the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.db.PingContext(ctx); err != nil {
		observeError("ping", err)
		return fmt.Errorf("repository.sqlite.ping: %w", err)
	}
	return nil
}

// Close checkpoints the WAL and closes the database. Closing twice is a no-op.
func (s *SQLiteStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	_, _ = s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("repository.sqlite.close: %w", err)
	}
	return nil
}

// jsonPath quotes field as a single JSON path member, so names with spaces
// or dots address one key.
func jsonPath(field string) string {
	return `$."` + strings.ReplaceAll(field, `"`, `\"`) + `"`
}

// Package index persists flattened stub symbols in a SQLite database so
// that editor-facing queries (hover lookup, prefix completion) do not need
// to reparse the corpus.
package index

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"stubdex/internal/logging"
	"stubdex/internal/stub"
)

// ErrNotFound is returned by Lookup when no symbol matches.
var ErrNotFound = fmt.Errorf("symbol not found")

// Store is the SQLite-backed symbol index.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open creates or opens the index database at dbPath, creating parent
// directories and the schema as needed.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	-- One row per indexed stub file.
	CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		sha256 TEXT NOT NULL,
		parsed_at DATETIME NOT NULL,
		generation TEXT NOT NULL
	);

	-- One row per declaration (scope, method, constant).
	CREATE TABLE IF NOT EXISTS symbols (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		qname TEXT NOT NULL,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		owner TEXT NOT NULL,
		signature TEXT NOT NULL,
		doc TEXT NOT NULL,
		path TEXT NOT NULL,
		line INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_symbols_qname ON symbols(qname);
	CREATE INDEX IF NOT EXISTS idx_symbols_owner ON symbols(owner);
	CREATE INDEX IF NOT EXISTS idx_symbols_path ON symbols(path);

	-- Single-row index metadata.
	CREATE TABLE IF NOT EXISTS meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		generation TEXT NOT NULL,
		built_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Build replaces the entire index with the symbols of the given files and
// returns the new generation ID. Files that no longer exist simply are not
// reinserted, so stale rows are purged by the wipe.
func (s *Store) Build(files []*stub.File) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer := logging.StartTimer(logging.CategoryIndex, "full index build")
	defer timer.Stop()

	generation := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin build transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM symbols`); err != nil {
		return "", fmt.Errorf("clear symbols: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM files`); err != nil {
		return "", fmt.Errorf("clear files: %w", err)
	}

	for _, f := range files {
		if err := insertFile(tx, f, generation); err != nil {
			return "", err
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO meta (id, generation, built_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET generation = excluded.generation, built_at = excluded.built_at`,
		generation, time.Now().UTC(),
	); err != nil {
		return "", fmt.Errorf("update meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit build: %w", err)
	}

	logging.Index("built index generation %s from %d files", generation, len(files))
	return generation, nil
}

// UpdateFile replaces one file's rows, keeping the rest of the index
// intact. Used by the watcher for incremental updates.
func (s *Store) UpdateFile(f *stub.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	generation, err := s.generationLocked()
	if err != nil {
		generation = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin update transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM symbols WHERE path = ?`, f.Path); err != nil {
		return fmt.Errorf("clear symbols for %s: %w", f.Path, err)
	}
	if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, f.Path); err != nil {
		return fmt.Errorf("clear file row for %s: %w", f.Path, err)
	}
	if err := insertFile(tx, f, generation); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}

	logging.IndexDebug("updated index rows for %s", f.Path)
	return nil
}

// RemoveFile deletes one file's rows from the index.
func (s *Store) RemoveFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin remove transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM symbols WHERE path = ?`, path); err != nil {
		return fmt.Errorf("remove symbols for %s: %w", path, err)
	}
	if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("remove file row for %s: %w", path, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit remove: %w", err)
	}

	logging.IndexDebug("removed index rows for %s", path)
	return nil
}

func insertFile(tx *sql.Tx, f *stub.File, generation string) error {
	sum := contentDigest(f)
	if _, err := tx.Exec(
		`INSERT INTO files (path, sha256, parsed_at, generation) VALUES (?, ?, ?, ?)`,
		f.Path, sum, time.Now().UTC(), generation,
	); err != nil {
		return fmt.Errorf("insert file %s: %w", f.Path, err)
	}

	for _, sym := range stub.Flatten(f) {
		if _, err := tx.Exec(
			`INSERT INTO symbols (qname, kind, name, owner, signature, doc, path, line)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sym.QName, string(sym.Kind), sym.Name, sym.Owner,
			sym.Signature, sym.Doc, sym.Path, sym.Line,
		); err != nil {
			return fmt.Errorf("insert symbol %s: %w", sym.QName, err)
		}
	}
	return nil
}

// contentDigest hashes a file's flattened symbols. The index never sees
// raw source, so the digest is over the declarations it stores.
func contentDigest(f *stub.File) string {
	h := sha256.New()
	for _, sym := range stub.Flatten(f) {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\n", sym.QName, sym.Kind, sym.Signature, sym.Doc)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the symbol with the exact qualified name.
func (s *Store) Lookup(qname string) (stub.Symbol, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		`SELECT qname, kind, name, owner, signature, doc, path, line
		 FROM symbols WHERE qname = ? ORDER BY path, line LIMIT 1`, qname)
	sym, err := scanSymbol(row)
	if err == sql.ErrNoRows {
		return stub.Symbol{}, ErrNotFound
	}
	if err != nil {
		return stub.Symbol{}, fmt.Errorf("lookup %s: %w", qname, err)
	}
	return sym, nil
}

// Complete returns up to limit symbols whose qualified name starts with
// prefix, shortest names first so the closest completions rank highest.
func (s *Store) Complete(prefix string, limit int) ([]stub.Symbol, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT qname, kind, name, owner, signature, doc, path, line
		 FROM symbols
		 WHERE qname LIKE ? ESCAPE '\'
		 ORDER BY length(qname), qname
		 LIMIT ?`, escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("complete %q: %w", prefix, err)
	}
	defer rows.Close()

	var out []stub.Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// Members returns the direct members of a scope, in name order.
func (s *Store) Members(owner string) ([]stub.Symbol, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT qname, kind, name, owner, signature, doc, path, line
		 FROM symbols WHERE owner = ? ORDER BY name`, owner)
	if err != nil {
		return nil, fmt.Errorf("members of %s: %w", owner, err)
	}
	defer rows.Close()

	var out []stub.Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// Stats summarizes the index contents.
type Stats struct {
	Files      int
	Symbols    int
	ByKind     map[stub.SymbolKind]int
	Generation string
	BuiltAt    time.Time
}

// Stats reports row counts by kind plus build metadata.
func (s *Store) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{ByKind: make(map[stub.SymbolKind]int)}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&st.Files); err != nil {
		return st, fmt.Errorf("count files: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM symbols`).Scan(&st.Symbols); err != nil {
		return st, fmt.Errorf("count symbols: %w", err)
	}

	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM symbols GROUP BY kind`)
	if err != nil {
		return st, fmt.Errorf("count by kind: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return st, err
		}
		st.ByKind[stub.SymbolKind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return st, err
	}

	err = s.db.QueryRow(`SELECT generation, built_at FROM meta WHERE id = 1`).
		Scan(&st.Generation, &st.BuiltAt)
	if err != nil && err != sql.ErrNoRows {
		return st, fmt.Errorf("read meta: %w", err)
	}
	return st, nil
}

// Generation returns the current index generation ID.
func (s *Store) Generation() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generationLocked()
}

func (s *Store) generationLocked() (string, error) {
	var generation string
	err := s.db.QueryRow(`SELECT generation FROM meta WHERE id = 1`).Scan(&generation)
	if err != nil {
		return "", fmt.Errorf("read generation: %w", err)
	}
	return generation, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSymbol(row rowScanner) (stub.Symbol, error) {
	var sym stub.Symbol
	var kind string
	err := row.Scan(&sym.QName, &kind, &sym.Name, &sym.Owner,
		&sym.Signature, &sym.Doc, &sym.Path, &sym.Line)
	sym.Kind = stub.SymbolKind(kind)
	return sym, err
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

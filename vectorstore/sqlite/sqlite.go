// Package sqlite persists vector collections in a SQLite database using the
// pure-Go modernc.org/sqlite driver. Vectors are stored as little-endian
// float32 blobs and ranked in process; book-sized collections (hundreds of
// chunks) make a full scan per query cheap.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/yonghwan-ko02/talereboot/vectorstore"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS lore_vectors (
    collection  TEXT NOT NULL,
    id          TEXT NOT NULL,
    chunk_index INTEGER NOT NULL,
    text        TEXT NOT NULL,
    vector      BLOB NOT NULL,
    PRIMARY KEY (collection, id)
);
`

const collectionIndex = `
CREATE INDEX IF NOT EXISTS idx_lore_vectors_collection
ON lore_vectors(collection, chunk_index);
`

// Store is a vectorstore.Store backed by SQLite.
type Store struct {
	db     *sql.DB
	ownsDB bool
}

// Open opens (or creates) the database at path and initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open vector db %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)
	s, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

// NewStore initializes the lore_vectors table on an existing database.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create lore_vectors: %w", err)
	}
	if _, err := db.Exec(collectionIndex); err != nil {
		return nil, fmt.Errorf("create lore_vectors index: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database when the store opened it.
func (s *Store) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// Replace implements vectorstore.Store inside a single transaction.
func (s *Store) Replace(ctx context.Context, collection string, records []vectorstore.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM lore_vectors WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("clear collection %s: %w", collection, err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lore_vectors (collection, id, chunk_index, text, vector)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, collection, r.ID, r.Index, r.Text, encodeVector(r.Vector)); err != nil {
			return fmt.Errorf("insert record %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// Query implements vectorstore.Store.
func (s *Store) Query(ctx context.Context, collection string, vector []float32, k int) ([]vectorstore.Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chunk_index, text, vector
		FROM lore_vectors
		WHERE collection = ?
		ORDER BY chunk_index`, collection)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", collection, err)
	}
	defer rows.Close()

	var records []vectorstore.Record
	for rows.Next() {
		var (
			r    vectorstore.Record
			blob []byte
		)
		if err := rows.Scan(&r.ID, &r.Index, &r.Text, &blob); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Vector, err = decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, vectorstore.ErrCollectionNotFound
	}
	return vectorstore.Rank(records, vector, k), nil
}

// Count implements vectorstore.Store.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lore_vectors WHERE collection = ?`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count collection %s: %w", collection, err)
	}
	return n, nil
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(buf))
	}
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return v, nil
}

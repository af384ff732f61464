// Package sqlite records turns into a SQLite table using the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yonghwan-ko02/talereboot/ledger"
	"github.com/yonghwan-ko02/talereboot/recorder"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS turn_log (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id   TEXT NOT NULL,
    turn         INTEGER NOT NULL,
    persona      TEXT,
    input        TEXT NOT NULL,
    output       TEXT NOT NULL,
    choices_json TEXT,
    score        INTEGER NOT NULL,
    ending       TEXT NOT NULL,
    chapter      TEXT NOT NULL,
    scene_status TEXT NOT NULL,
    created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turn_log_session ON turn_log(session_id, turn);
`

// Recorder writes entries into the turn_log table.
type Recorder struct {
	db     *sql.DB
	ownsDB bool
}

// Open opens (or creates) the database at path.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open transcript db %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	r, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	r.ownsDB = true
	return r, nil
}

// New creates the turn_log table on an existing database.
func New(db *sql.DB) (*Recorder, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create turn_log: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Close closes the database when the recorder opened it.
func (r *Recorder) Close() error {
	if !r.ownsDB {
		return nil
	}
	return r.db.Close()
}

// Record implements recorder.Recorder.
func (r *Recorder) Record(ctx context.Context, e recorder.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	choices, err := marshalChoices(e.Choices)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO turn_log (session_id, turn, persona, input, output, choices_json, score, ending, chapter, scene_status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID,
		e.Turn,
		nullIfEmpty(e.Persona),
		e.Input,
		e.Output,
		nullIfEmpty(choices),
		e.Score,
		string(e.Ending),
		e.Scene.Chapter,
		string(e.Scene.Status),
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	return nil
}

// Entries returns the recorded turns of sessionID ordered by turn.
func (r *Recorder) Entries(ctx context.Context, sessionID string) ([]recorder.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, turn, persona, input, output, choices_json, score, ending, chapter, scene_status, created_at
		 FROM turn_log WHERE session_id = ? ORDER BY turn, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var out []recorder.Entry
	for rows.Next() {
		var (
			e                recorder.Entry
			persona, choices sql.NullString
			ending, status   string
			createdAt        string
		)
		if err := rows.Scan(&e.SessionID, &e.Turn, &persona, &e.Input, &e.Output, &choices,
			&e.Score, &ending, &e.Scene.Chapter, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		e.Persona = persona.String
		e.Ending = ledger.Ending(ending)
		e.Scene.Status = ledger.SceneStatus(status)
		if choices.Valid {
			if err := json.Unmarshal([]byte(choices.String), &e.Choices); err != nil {
				return nil, fmt.Errorf("decode choices: %w", err)
			}
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func marshalChoices(choices []ledger.Choice) (string, error) {
	if len(choices) == 0 {
		return "", nil
	}
	b, err := json.Marshal(choices)
	if err != nil {
		return "", fmt.Errorf("encode choices: %w", err)
	}
	return string(b), nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

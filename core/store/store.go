// Package store persists document snapshots and computed revision runs in
// SQLite. Snapshots are content-addressed: the canonical JSON encoding of
// the tree is hashed with BLAKE3 and identical trees share one row of body
// data regardless of how many labels point at them.
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/zeebo/blake3"

	"github.com/openredline/redline/core/doc"
	"github.com/openredline/redline/core/errors"
	"github.com/openredline/redline/core/sqlite"
	"github.com/openredline/redline/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS blobs (
	hash       TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	size_bytes INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshots (
	label      TEXT PRIMARY KEY,
	hash       TEXT NOT NULL REFERENCES blobs(hash),
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS revision_runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	prev_label  TEXT NOT NULL,
	curr_label  TEXT NOT NULL,
	hash        TEXT NOT NULL REFERENCES blobs(hash),
	revisions   INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);
`

// SnapshotInfo describes one stored snapshot without its body.
type SnapshotInfo struct {
	Label     string    `json:"label"`
	Hash      string    `json:"hash"`
	SizeBytes int       `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// RunInfo describes one stored revision run without its body.
type RunInfo struct {
	ID        int64     `json:"id"`
	PrevLabel string    `json:"prev_label"`
	CurrLabel string    `json:"curr_label"`
	Hash      string    `json:"hash"`
	Revisions int       `json:"revisions"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a SQLite-backed snapshot and revision-run archive.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a store at the given SQLite path.
func Open(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "store: apply schema")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Hash returns the BLAKE3 content hash of a document's canonical JSON form.
func Hash(d *doc.Document) (string, []byte, error) {
	body, err := json.Marshal(d)
	if err != nil {
		return "", nil, errors.Wrap(err, "store: encode document")
	}
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:]), body, nil
}

// SaveSnapshot stores a document under a label. Re-saving a label points it
// at the new content; identical content is stored once.
func (s *Store) SaveSnapshot(ctx context.Context, label string, d *doc.Document) (string, error) {
	if label == "" {
		return "", errors.NewValidation("label", "must not be empty")
	}
	hash, body, err := Hash(d)
	if err != nil {
		return "", err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "store: begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO blobs (hash, body, size_bytes) VALUES (?, ?, ?)
		 ON CONFLICT(hash) DO NOTHING`, hash, body, len(body)); err != nil {
		return "", errors.Wrap(err, "store: insert blob")
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (label, hash, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(label) DO UPDATE SET hash = excluded.hash, created_at = excluded.created_at`,
		label, hash, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return "", errors.Wrap(err, "store: insert snapshot")
	}
	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "store: commit")
	}
	logging.SnapshotStored(label, hash, len(body))
	return hash, nil
}

// LoadSnapshot returns the document stored under a label.
func (s *Store) LoadSnapshot(ctx context.Context, label string) (*doc.Document, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT b.body FROM snapshots s JOIN blobs b ON b.hash = s.hash WHERE s.label = ?`,
		label).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("snapshot", label)
	}
	if err != nil {
		return nil, errors.Wrap(err, "store: query snapshot")
	}
	var d doc.Document
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, errors.NewParse("JSON", label, err.Error())
	}
	return &d, nil
}

// ListSnapshots returns all snapshots ordered by label.
func (s *Store) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.label, s.hash, b.size_bytes, s.created_at
		 FROM snapshots s JOIN blobs b ON b.hash = s.hash ORDER BY s.label`)
	if err != nil {
		return nil, errors.Wrap(err, "store: list snapshots")
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var created string
		if err := rows.Scan(&info.Label, &info.Hash, &info.SizeBytes, &created); err != nil {
			return nil, errors.Wrap(err, "store: scan snapshot row")
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteSnapshot removes a label. The blob stays until no label or run
// references it; Vacuum reclaims orphans.
func (s *Store) DeleteSnapshot(ctx context.Context, label string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE label = ?`, label)
	if err != nil {
		return errors.Wrap(err, "store: delete snapshot")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFound("snapshot", label)
	}
	return nil
}

// SaveRun stores one computed revision run between two labeled snapshots.
func (s *Store) SaveRun(ctx context.Context, prevLabel, currLabel string, annotated *doc.Document, revisions int) (int64, error) {
	hash, body, err := Hash(annotated)
	if err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "store: begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO blobs (hash, body, size_bytes) VALUES (?, ?, ?)
		 ON CONFLICT(hash) DO NOTHING`, hash, body, len(body)); err != nil {
		return 0, errors.Wrap(err, "store: insert blob")
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO revision_runs (prev_label, curr_label, hash, revisions, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		prevLabel, currLabel, hash, revisions, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, errors.Wrap(err, "store: insert run")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "store: run ID")
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "store: commit")
	}
	return id, nil
}

// LoadRun returns one stored run's annotated document.
func (s *Store) LoadRun(ctx context.Context, id int64) (*doc.Document, *RunInfo, error) {
	var info RunInfo
	var body []byte
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT r.id, r.prev_label, r.curr_label, r.hash, r.revisions, r.created_at, b.body
		 FROM revision_runs r JOIN blobs b ON b.hash = r.hash WHERE r.id = ?`, id).
		Scan(&info.ID, &info.PrevLabel, &info.CurrLabel, &info.Hash, &info.Revisions, &created, &body)
	if err == sql.ErrNoRows {
		return nil, nil, errors.NewNotFound("revision run", "")
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "store: query run")
	}
	info.CreatedAt, _ = time.Parse(time.RFC3339, created)
	var d doc.Document
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, nil, errors.NewParse("JSON", "", err.Error())
	}
	return &d, &info, nil
}

// ListRuns returns all stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, prev_label, curr_label, hash, revisions, created_at
		 FROM revision_runs ORDER BY id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var info RunInfo
		var created string
		if err := rows.Scan(&info.ID, &info.PrevLabel, &info.CurrLabel, &info.Hash, &info.Revisions, &created); err != nil {
			return nil, errors.Wrap(err, "store: scan run row")
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Vacuum deletes blobs no snapshot or run references.
func (s *Store) Vacuum(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM blobs WHERE hash NOT IN (SELECT hash FROM snapshots)
		 AND hash NOT IN (SELECT hash FROM revision_runs)`)
	if err != nil {
		return 0, errors.Wrap(err, "store: vacuum")
	}
	return res.RowsAffected()
}

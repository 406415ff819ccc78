package db

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/blake2b"
)

// ImportRun records the last successful import of one source file.
type ImportRun struct {
	Source      string
	Fingerprint []byte
	Records     int
	ImportedAt  time.Time
}

// ImportRepository tracks imported source files so unchanged files can be
// skipped on the next import.
type ImportRepository struct {
	db *pgxpool.Pool
}

// NewImportRepository creates a new ImportRepository.
func NewImportRepository(db *pgxpool.Pool) *ImportRepository {
	return &ImportRepository{db: db}
}

// Fingerprint returns the BLAKE2b-256 digest of r followed by settings.
// Settings let an import invalidate its fingerprint when options that shape
// the stored data change while the source file does not.
func Fingerprint(r io.Reader, settings ...string) ([]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, fmt.Errorf("creating blake2b hash: %w", err)
	}
	if _, err := io.Copy(h, r); err != nil {
		return nil, fmt.Errorf("hashing: %w", err)
	}
	for _, s := range settings {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	return h.Sum(nil), nil
}

// FingerprintFile returns the BLAKE2b-256 digest of the file at path
// followed by settings.
func FingerprintFile(path string, settings ...string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sum, err := Fingerprint(f, settings...)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting %s: %w", path, err)
	}
	return sum, nil
}

// Last returns the last recorded run for source. Returns ErrNotFound if the
// source was never imported.
func (r *ImportRepository) Last(ctx context.Context, source string) (*ImportRun, error) {
	run := ImportRun{Source: source}
	err := r.db.QueryRow(ctx,
		`SELECT fingerprint, records, imported_at FROM import_runs WHERE source = $1`, source,
	).Scan(&run.Fingerprint, &run.Records, &run.ImportedAt)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("import run %q: %w", source, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying import run %q: %w", source, err)
	}
	return &run, nil
}

// Unchanged reports whether source was last imported with fingerprint.
func (r *ImportRepository) Unchanged(ctx context.Context, source string, fingerprint []byte) (bool, error) {
	var stored []byte
	err := r.db.QueryRow(ctx,
		`SELECT fingerprint FROM import_runs WHERE source = $1`, source,
	).Scan(&stored)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying import run %q: %w", source, err)
	}
	return bytes.Equal(stored, fingerprint), nil
}

// Record upserts the import run for source.
func (r *ImportRepository) Record(ctx context.Context, source string, fingerprint []byte, records int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO import_runs (source, fingerprint, records, imported_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (source) DO UPDATE
		 SET fingerprint = EXCLUDED.fingerprint, records = EXCLUDED.records, imported_at = EXCLUDED.imported_at`,
		source, fingerprint, records, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("recording import run %q: %w", source, err)
	}
	return nil
}

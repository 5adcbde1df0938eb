package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Build represents one run of the transition table builder.
type Build struct {
	BuildID    string
	StartedAt  time.Time
	EndedAt    *time.Time
	DurationMs *int64
	Variant    string
	Workers    int
	DenseLimit int64
	AppVersion *string
}

// BuildRepository provides CRUD operations for builds.
type BuildRepository struct {
	db *DB
}

// NewBuildRepository creates a new build repository.
func NewBuildRepository(db *DB) *BuildRepository {
	return &BuildRepository{db: db}
}

// Create records the start of a build and returns its ID.
func (r *BuildRepository) Create(variant string, workers int, denseLimit uint32, appVersion string) (string, error) {
	id := uuid.New().String()

	var appVersionPtr *string
	if appVersion != "" {
		appVersionPtr = &appVersion
	}

	_, err := r.db.Exec(`
		INSERT INTO builds (build_id, started_at, variant, workers, dense_limit, app_version)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, formatTime(time.Now()), variant, workers, int64(denseLimit), appVersionPtr)

	if err != nil {
		return "", fmt.Errorf("failed to create build: %w", err)
	}

	return id, nil
}

// End marks a build as complete.
func (r *BuildRepository) End(buildID string) error {
	endedAt := time.Now().UTC()

	var startedAtStr string
	err := r.db.QueryRow("SELECT started_at FROM builds WHERE build_id = ?", buildID).Scan(&startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to get build start time: %w", err)
	}

	durationMs := endedAt.Sub(parseTime(startedAtStr)).Milliseconds()

	_, err = r.db.Exec(`
		UPDATE builds
		SET ended_at = ?, duration_ms = ?
		WHERE build_id = ?
	`, formatTime(endedAt), durationMs, buildID)

	if err != nil {
		return fmt.Errorf("failed to end build: %w", err)
	}

	return nil
}

const buildColumns = `build_id, started_at, ended_at, duration_ms, variant, workers, dense_limit, app_version`

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (*Build, error) {
	var b Build
	var startedAtStr string
	var endedAtStr sql.NullString

	err := row.Scan(
		&b.BuildID, &startedAtStr, &endedAtStr, &b.DurationMs,
		&b.Variant, &b.Workers, &b.DenseLimit, &b.AppVersion,
	)
	if err != nil {
		return nil, err
	}

	b.StartedAt = parseTime(startedAtStr)
	if endedAtStr.Valid {
		t := parseTime(endedAtStr.String)
		b.EndedAt = &t
	}
	return &b, nil
}

// Get retrieves a build by ID. It returns nil when no build matches.
func (r *BuildRepository) Get(buildID string) (*Build, error) {
	b, err := scanBuild(r.db.QueryRow(`SELECT `+buildColumns+` FROM builds WHERE build_id = ?`, buildID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get build: %w", err)
	}
	return b, nil
}

// GetLast retrieves the most recent completed build for a variant.
func (r *BuildRepository) GetLast(variant string) (*Build, error) {
	b, err := scanBuild(r.db.QueryRow(`
		SELECT `+buildColumns+` FROM builds
		WHERE variant = ? AND ended_at IS NOT NULL
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`, variant))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last build: %w", err)
	}
	return b, nil
}

// List retrieves recent builds, newest first.
func (r *BuildRepository) List(limit int) ([]Build, error) {
	rows, err := r.db.Query(`
		SELECT `+buildColumns+` FROM builds
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}
		builds = append(builds, *b)
	}

	return builds, rows.Err()
}

// Delete deletes a build and its table records (cascading).
func (r *BuildRepository) Delete(buildID string) error {
	_, err := r.db.Exec("DELETE FROM builds WHERE build_id = ?", buildID)
	if err != nil {
		return fmt.Errorf("failed to delete build: %w", err)
	}
	return nil
}

package storage

import (
	"database/sql"
	"fmt"
)

// TableRecord describes one transition table produced by a build.
type TableRecord struct {
	TableID  int64
	BuildID  string
	Move     string
	Family   string
	Size     int64
	Strategy string
	Checksum *string
}

// TableRepository provides CRUD operations for table records.
type TableRepository struct {
	db *DB
}

// NewTableRepository creates a new table repository.
func NewTableRepository(db *DB) *TableRepository {
	return &TableRepository{db: db}
}

// CreateBatch records the tables of a build in a single transaction.
func (r *TableRepository) CreateBatch(buildID string, records []TableRecord) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, rec := range records {
			_, err := tx.Exec(`
				INSERT INTO tables (build_id, move, family, size, strategy, checksum)
				VALUES (?, ?, ?, ?, ?, ?)
			`, buildID, rec.Move, rec.Family, rec.Size, rec.Strategy, rec.Checksum)
			if err != nil {
				return fmt.Errorf("failed to create table record %d (%s/%s): %w", i, rec.Move, rec.Family, err)
			}
		}
		return nil
	})
}

// GetByBuild retrieves the table records of a build in insertion order.
func (r *TableRepository) GetByBuild(buildID string) ([]TableRecord, error) {
	rows, err := r.db.Query(`
		SELECT table_id, build_id, move, family, size, strategy, checksum
		FROM tables
		WHERE build_id = ?
		ORDER BY table_id
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	defer rows.Close()

	var records []TableRecord
	for rows.Next() {
		var rec TableRecord
		err := rows.Scan(&rec.TableID, &rec.BuildID, &rec.Move, &rec.Family, &rec.Size, &rec.Strategy, &rec.Checksum)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetByChecksumKey retrieves the most recently recorded checksum for a
// (move, family) pair across all builds. It returns nil when none exists.
func (r *TableRepository) GetByChecksumKey(move, family string) (*TableRecord, error) {
	var rec TableRecord
	err := r.db.QueryRow(`
		SELECT t.table_id, t.build_id, t.move, t.family, t.size, t.strategy, t.checksum
		FROM tables t
		JOIN builds b ON b.build_id = t.build_id
		WHERE t.move = ? AND t.family = ? AND t.checksum IS NOT NULL
		ORDER BY b.started_at DESC, t.table_id DESC
		LIMIT 1
	`, move, family).Scan(&rec.TableID, &rec.BuildID, &rec.Move, &rec.Family, &rec.Size, &rec.Strategy, &rec.Checksum)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checksum: %w", err)
	}
	return &rec, nil
}

// CountByBuild returns the number of tables recorded for a build.
func (r *TableRepository) CountByBuild(buildID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM tables WHERE build_id = ?", buildID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tables: %w", err)
	}
	return count, nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"

	"wahoowatch/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
)

// Reader serves feed and API queries against the versions database.
type Reader struct {
	db *sql.DB
}

func NewReader(database string) (*Reader, error) {
	db, err := readConnection(database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return &Reader{db: db}, nil
}

func (reader *Reader) Close() error {
	return reader.db.Close()
}

// RecentVersions returns up to limit stored versions, newest first. Ties on
// first_seen are broken by insertion order, latest insert first.
func (reader *Reader) RecentVersions(ctx context.Context, limit int) ([]models.Version, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "device", "version", "url", "release_type", "first_seen").From("versions")
	sb.OrderBy("first_seen DESC", "id DESC")
	sb.Limit(limit)

	sql, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))

	rows, err := reader.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var versions []models.Version
	for rows.Next() {
		var version models.Version
		if err := rows.Scan(&version.Id, &version.Device, &version.Version, &version.Url, &version.ReleaseType, &version.FirstSeen); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		versions = append(versions, version)
	}

	return versions, rows.Err()
}

// CountVersions returns the total number of stored versions.
func (reader *Reader) CountVersions(ctx context.Context) (int64, error) {
	var count int64
	if err := reader.db.QueryRowContext(ctx, "SELECT count(*) FROM versions").Scan(&count); err != nil {
		return 0, fmt.Errorf("query error: %w", err)
	}
	return count, nil
}

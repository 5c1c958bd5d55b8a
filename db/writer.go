package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wahoowatch/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Writer appends newly observed firmware versions to the database. There is
// exactly one writer per run and it is never shared between goroutines.
type Writer struct {
	db *sql.DB
}

func NewWriter(database string) (*Writer, error) {
	db, err := connection(database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return &Writer{db: db}, nil
}

func (writer *Writer) Close() error {
	return writer.db.Close()
}

// TryInsert appends the observation unless the (device, version, release
// type) triple has been seen before. Returns the stored record and true when
// the triple was new, nil and false when it already exists. A duplicate is an
// expected outcome, not an error; anything else that goes wrong is.
func (writer *Writer) TryInsert(ctx context.Context, device string, version string, url string, releaseType models.ReleaseType) (*models.Version, bool, error) {
	firstSeen := time.Now().UTC().Unix()

	insertVersion := sqlbuilder.NewInsertBuilder()
	insertVersion.InsertInto("versions").
		Cols("device", "version", "url", "release_type", "first_seen").
		Values(device, version, url, string(releaseType), firstSeen)
	sql, args := insertVersion.Build()

	res, err := writer.db.ExecContext(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("insert error: %w", err)
	}

	// Get inserted id
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("error getting inserted id: %w", err)
	}

	log.WithFields(log.Fields{
		"device":      device,
		"version":     version,
		"releaseType": releaseType,
	}).Info("Recorded new version")

	return &models.Version{
		Id:          id,
		Device:      device,
		Version:     version,
		Url:         url,
		ReleaseType: releaseType,
		FirstSeen:   firstSeen,
	}, true, nil
}

// isUniqueViolation reports whether err is the versions table's uniqueness
// constraint firing.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

package repository

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository implements PlacesRepository over a places.sqlite file
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens dbPath read-only and checks that it carries the
// bookmark and page tables.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// sqlite would happily create an empty database for a missing path
	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, err
	}

	if err := checkSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func checkSchema(db *sql.DB) error {
	for _, table := range []string{"moz_bookmarks", "moz_places"} {
		var count int
		err := db.QueryRow(
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("table %s not found", table)
		}
	}
	return nil
}

// hasColumn reports whether table has the named column. Older and
// hand-made dumps lack some of the optional timestamp columns.
func hasColumn(db *sql.DB, table, column string) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Records returns all bookmark rows joined with their page URL
func (r *SQLiteRepository) Records() ([]PlaceRecord, error) {
	lastModified := "NULL"
	ok, err := hasColumn(r.db, "moz_bookmarks", "lastModified")
	if err != nil {
		return nil, err
	}
	if ok {
		lastModified = "mb.lastModified"
	}

	lastVisit := "NULL"
	ok, err = hasColumn(r.db, "moz_places", "last_visit_date")
	if err != nil {
		return nil, err
	}
	if ok {
		lastVisit = "mp.last_visit_date"
	}

	query := fmt.Sprintf(`
		SELECT mb.id, mb.parent, mb.type, mb.title, mb.dateAdded, %s, mp.url, %s
		FROM moz_bookmarks AS mb
		LEFT JOIN moz_places AS mp ON mb.fk = mp.id
		ORDER BY mb.id ASC
	`, lastModified, lastVisit)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var records []PlaceRecord
	for rows.Next() {
		var rec PlaceRecord
		var parent, typ, dateAdded, modified, visited sql.NullInt64
		var title, url sql.NullString

		if err := rows.Scan(&rec.ID, &parent, &typ, &title, &dateAdded, &modified, &url, &visited); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rec.ParentID = nullableInt(parent)
		rec.Type = int(typ.Int64)
		rec.Title = title.String
		rec.URL = url.String
		rec.DateAdded = nullableInt(dateAdded)
		rec.LastModified = nullableInt(modified)
		rec.LastVisit = nullableInt(visited)

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return records, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func nullableInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

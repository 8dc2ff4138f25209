package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite"

	"github.com/happyhackingspace/cooc/sparse"
)

const sqliteSchema = `
CREATE TABLE columns (
	col  INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE features (
	row   INTEGER NOT NULL,
	col   INTEGER NOT NULL,
	value INTEGER NOT NULL,
	PRIMARY KEY (row, col)
) WITHOUT ROWID;
`

func writeSQLite(path string, m *sparse.Matrix, columns []string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove previous database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertColumns(tx, columns); err != nil {
		return err
	}
	if err := insertEntries(tx, m); err != nil {
		return err
	}
	return tx.Commit()
}

func insertColumns(tx *sql.Tx, columns []string) error {
	stmt, err := tx.Prepare(`INSERT INTO columns (col, name) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare column insert: %w", err)
	}
	defer stmt.Close()

	for i, name := range columns {
		if _, err := stmt.Exec(i, name); err != nil {
			return fmt.Errorf("insert column %d: %w", i, err)
		}
	}
	return nil
}

func insertEntries(tx *sql.Tx, m *sparse.Matrix) error {
	stmt, err := tx.Prepare(`INSERT INTO features (row, col, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare feature insert: %w", err)
	}
	defer stmt.Close()

	var insertErr error
	m.Each(func(row, col int, value int32) {
		if insertErr != nil {
			return
		}
		if _, err := stmt.Exec(row, col, value); err != nil {
			insertErr = fmt.Errorf("insert entry (%d, %d): %w", row, col, err)
		}
	})
	return insertErr
}

func readSQLite(path string, rows, cols int) (*sparse.Matrix, []string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	columns, err := loadColumns(db)
	if err != nil {
		return nil, nil, err
	}

	res, err := db.Query(`SELECT row, col, value FROM features`)
	if err != nil {
		return nil, nil, fmt.Errorf("query features: %w", err)
	}
	defer res.Close()

	b := sparse.NewBuilder(rows, cols, 0)
	for res.Next() {
		var row, col int
		var value int32
		if err := res.Scan(&row, &col, &value); err != nil {
			return nil, nil, fmt.Errorf("scan feature: %w", err)
		}
		b.Add(row, col, value)
	}
	if err := res.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate features: %w", err)
	}

	m, err := b.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return m, columns, nil
}

func loadColumns(db *sql.DB) ([]string, error) {
	res, err := db.Query(`SELECT name FROM columns ORDER BY col`)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer res.Close()

	var columns []string
	for res.Next() {
		var name string
		if err := res.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, name)
	}
	return columns, res.Err()
}

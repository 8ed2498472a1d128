package archive

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"

	_ "modernc.org/sqlite" // SQLite driver
)

// Reader reads tiles back out of an archive.
type Reader struct {
	db *sql.DB
}

// OpenReader opens an existing archive for reading.
func OpenReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return &Reader{db: db}, nil
}

// ReadTile returns the decompressed PNG data for the tile, or
// sql.ErrNoRows if the archive doesn't contain it.
func (r *Reader) ReadTile(z, x, y int) ([]byte, error) {
	tmsY := (1 << z) - 1 - y

	var blob []byte
	err := r.db.QueryRow(
		"SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?",
		z, x, tmsY,
	).Scan(&blob)
	if err != nil {
		return nil, err
	}

	gr, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		// Some producers store raw PNG; fall back to the stored bytes.
		return blob, nil
	}
	defer gr.Close()

	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress tile %d/%d/%d: %w", z, x, y, err)
	}
	return data, nil
}

// Metadata returns the archive's metadata rows.
func (r *Reader) Metadata() (map[string]string, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		meta[name] = value
	}
	return meta, rows.Err()
}

// Close closes the underlying database.
func (r *Reader) Close() error {
	return r.db.Close()
}

package archive

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testMetadata() Metadata {
	return Metadata{
		Name:        "test",
		Description: "noise pyramid",
		Version:     "1.0",
		MinZoom:     0,
		MaxZoom:     2,
		Seed:        1337,
		Backend:     "lattice",
		Scale:       32,
		Octaves:     3,
		Persistence: 0.5,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.mbtiles")

	w, err := NewWriter(path, testMetadata())
	require.NoError(t, err)

	payload := []byte("not-really-png-but-close-enough")
	require.NoError(t, w.WriteTile(2, 1, 3, payload))
	require.NoError(t, w.WriteTile(0, 0, 0, []byte("root")))
	require.NoError(t, w.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadTile(2, 1, 3)
	require.NoError(t, err)
	require.Equal(t, payload, got)

	got, err = r.ReadTile(0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("root"), got)
}

func TestReadMissingTile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.mbtiles")

	w, err := NewWriter(path, testMetadata())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadTile(1, 0, 0)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMetadataPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.mbtiles")

	w, err := NewWriter(path, testMetadata())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	meta, err := r.Metadata()
	require.NoError(t, err)
	require.Equal(t, "test", meta["name"])
	require.Equal(t, "png", meta["format"])
	require.Equal(t, "1337", meta["seed"])
	require.Equal(t, "lattice", meta["backend"])
	require.Equal(t, "0.5", meta["persistence"])
	require.Equal(t, "3", meta["octaves"])
}

func TestOverwriteReplacesTile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.mbtiles")

	w, err := NewWriter(path, testMetadata())
	require.NoError(t, err)
	require.NoError(t, w.WriteTile(1, 0, 1, []byte("first")))
	require.NoError(t, w.Flush())
	require.NoError(t, w.WriteTile(1, 0, 1, []byte("second")))
	require.NoError(t, w.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadTile(1, 0, 1)
	require.NoError(t, err)
	require.Equal(t, []byte("second"), got)
}

// Package archive stores rendered tile pyramids in a single SQLite
// file using the MBTiles table layout (metadata + tiles, TMS row
// order), so existing tile tooling can open the output.
package archive

import "strconv"

// Metadata describes the archive contents, including the noise
// parameters so a pyramid can be reproduced from the file alone.
type Metadata struct {
	Name        string
	Description string
	Format      string
	Version     string
	MinZoom     int
	MaxZoom     int
	Seed        int64
	Backend     string
	Scale       float64
	Octaves     int
	Persistence float64
}

// ToMap flattens the metadata into the key/value rows stored in the
// metadata table.
func (m Metadata) ToMap() map[string]string {
	format := m.Format
	if format == "" {
		format = "png"
	}
	return map[string]string{
		"name":        m.Name,
		"description": m.Description,
		"format":      format,
		"version":     m.Version,
		"minzoom":     strconv.Itoa(m.MinZoom),
		"maxzoom":     strconv.Itoa(m.MaxZoom),
		"seed":        strconv.FormatInt(m.Seed, 10),
		"backend":     m.Backend,
		"scale":       strconv.FormatFloat(m.Scale, 'g', -1, 64),
		"octaves":     strconv.Itoa(m.Octaves),
		"persistence": strconv.FormatFloat(m.Persistence, 'g', -1, 64),
	}
}

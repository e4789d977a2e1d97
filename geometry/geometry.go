// Package geometry holds named disk-size presets, loaded from an embedded
// CSV the same way disks.GetPredefinedDiskGeometry loads real floppy
// geometries, but reduced to the two parameters this simulation's Disk
// actually needs.
package geometry

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// DiskGeometry names a (ClusterBytes, ClusterCount) pair a CLI user can pick
// by slug instead of typing raw numbers.
type DiskGeometry struct {
	Name         string `csv:"name"`
	Slug         string `csv:"slug"`
	ClusterBytes uint32 `csv:"cluster_bytes"`
	ClusterCount uint32 `csv:"cluster_count"`
	Notes        string `csv:"notes"`
}

//go:embed geometry-presets.csv
var presetsCSV string

var presets map[string]DiskGeometry

func init() {
	presets = make(map[string]DiskGeometry)
	reader := strings.NewReader(presetsCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row DiskGeometry) error {
		if _, exists := presets[row.Slug]; exists {
			return fmt.Errorf("duplicate geometry preset slug %q", row.Slug)
		}
		presets[row.Slug] = row
		return nil
	})
	if err != nil && err != io.EOF {
		panic(err)
	}
}

// GetPreset looks up a named geometry preset by slug.
func GetPreset(slug string) (DiskGeometry, error) {
	geometry, ok := presets[slug]
	if !ok {
		return DiskGeometry{}, fmt.Errorf("no disk geometry preset named %q", slug)
	}
	return geometry, nil
}

// Presets returns every known preset, in no particular order.
func Presets() []DiskGeometry {
	out := make([]DiskGeometry, 0, len(presets))
	for _, g := range presets {
		out = append(out, g)
	}
	return out
}

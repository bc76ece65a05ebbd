package export

import (
	"path/filepath"
	"strings"
)

// Options is the bundle handed to the rasterization facility.
type Options struct {
	PageSize     string
	Orientation  string
	MarginsMM    [4]int
	ImageQuality float64
	Scale        float64
	PageBreak    []string
	Filename     string
}

// DefaultOptions matches the layout of the printed wholesale catalog.
func DefaultOptions() Options {
	return Options{
		PageSize:     "a4",
		Orientation:  "portrait",
		MarginsMM:    [4]int{10, 10, 10, 10},
		ImageQuality: 0.92,
		Scale:        2,
		PageBreak:    []string{"avoid-all", "css", "legacy"},
		Filename:     "B2B_Wholesale_Catalog.pdf",
	}
}

// AvoidBreaks reports whether blocks must not be split across pages.
func (o Options) AvoidBreaks() bool {
	for _, m := range o.PageBreak {
		if m == "avoid-all" {
			return true
		}
	}
	return false
}

// FilenameWithExt replaces the extension of the configured filename.
func (o Options) FilenameWithExt(ext string) string {
	name := o.Filename
	if name == "" {
		name = DefaultOptions().Filename
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

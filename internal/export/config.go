package export

import (
	"github.com/Simplici0/b2b-catalog/internal/config"
)

// OptionsFromConfig maps the environment configuration onto the facility options bundle.
func OptionsFromConfig(c config.Export) Options {
	return Options{
		PageSize:     c.PageSize,
		Orientation:  c.Orientation,
		MarginsMM:    c.Margins(),
		ImageQuality: c.ImageQuality,
		Scale:        c.Scale,
		PageBreak:    c.PageBreak,
		Filename:     c.Filename,
	}
}

// FacilityFromConfig returns the configured converter command, or the HTML facility when
// no command is set.
func FacilityFromConfig(c config.Export) (Facility, error) {
	if c.Command == "" {
		return HTMLFacility{}, nil
	}
	cmd, err := ParseCommand(c.Command)
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	modelconfig "github.com/callsight-lab/callsight/pkg/domain/model/config"
	"github.com/callsight-lab/callsight/pkg/domain/types"
)

// Profile holds the CLI flag for an optional extraction profile file
type Profile struct {
	path string
}

// Flags returns CLI flags for extraction profile configuration
func (p *Profile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "Extraction profile TOML file (rephrases categories, never adds or removes them)",
			Sources:     cli.EnvVars("CALLSIGHT_PROFILE"),
			Destination: &p.path,
		},
	}
}

// Path returns the configured profile path
func (p *Profile) Path() string {
	return p.path
}

// Configure loads the extraction profile from the configured path. Returns
// nil when no profile is configured (the built-in profile will be used).
func (p *Profile) Configure() (*modelconfig.ExtractionProfile, error) {
	if p.path == "" {
		return nil, nil
	}
	return LoadExtractionProfile(p.path)
}

type profileFile struct {
	Categories []profileCategory `toml:"category"`
}

type profileCategory struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Guidance    string `toml:"guidance"`
}

// LoadExtractionProfile loads an extraction profile from a TOML file and
// validates it against the closed category set
func LoadExtractionProfile(path string) (*modelconfig.ExtractionProfile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(ErrProfileNotFound, "failed to read profile file", goerr.V("path", path), goerr.V("cause", err.Error()))
	}

	var raw profileFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, goerr.Wrap(ErrInvalidProfile, "failed to parse TOML profile", goerr.V("path", path), goerr.V("cause", err.Error()))
	}

	profile := &modelconfig.ExtractionProfile{
		Categories: make([]modelconfig.CategoryGuide, 0, len(raw.Categories)),
	}
	for _, cat := range raw.Categories {
		profile.Categories = append(profile.Categories, modelconfig.CategoryGuide{
			Category:    types.InsightCategory(cat.ID),
			Name:        cat.Name,
			Description: cat.Description,
			Guidance:    cat.Guidance,
		})
	}

	if err := profile.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidProfile, "profile validation failed", goerr.V("path", path), goerr.V("cause", err.Error()))
	}

	return profile, nil
}

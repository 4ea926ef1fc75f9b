package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultProfileName is used when no profile is selected explicitly.
const DefaultProfileName = "NBU"

// Profile describes one deployment of the event logger: which event
// categories exist, where logs go by default, and how project identifiers
// map onto study identifiers.
type Profile struct {
	Name     string            `yaml:"name"`
	AppName  string            `yaml:"app_name"`
	Events   []string          `yaml:"events"`
	ValidIDs []string          `yaml:"valid_ids"`
	StudyIDs map[string]string `yaml:"study_ids"`
}

// builtinProfiles are the two known deployments. A YAML profile file can
// define additional ones without rebuilding the binary.
var builtinProfiles = map[string]Profile{
	"NBU": {
		Name:    "NBU",
		AppName: "TRBD Event Logger",
		Events: []string{
			"DBS Programming Session",
			"Clinical Interview",
			"Lounge Activity",
			"Surprise",
			"VR-PAAT",
			"Sleep Period",
			"Meal",
			"Social",
			"Break",
			"IPG Charging",
			"CTM Disconnect",
			"Walk",
			"Snack",
			"Resting state",
			"Other",
		},
		ValidIDs: []string{"AA", "TRBD", "P"},
		StudyIDs: map[string]string{
			"AA":   "AA-56119",
			"TRBD": "TRBD-53761",
			"P":    "PerceptOCD-48392",
		},
	},
	"Jamail": {
		Name:    "Jamail",
		AppName: "Jamail Event Logger",
		Events: []string{
			"DBS Programming Session",
			"Clinical Interview",
			"PRT",
			"ERP",
			"PAAT",
			"Resting",
			"Other",
		},
		ValidIDs: []string{"AA", "TRBD", "P"},
		StudyIDs: map[string]string{
			"AA":   "AA-56119",
			"TRBD": "TRBD-53761",
			"P":    "PerceptOCD-48392",
		},
	},
}

// ProfileNames returns the names of all built-in profiles.
func ProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	return names
}

// LoadProfile resolves the profile selected by the configuration.
// A profile file takes precedence over the built-in profile name.
func LoadProfile(cfg *Config) (*Profile, error) {
	if cfg.Profile.File != "" {
		return loadProfileFile(cfg.Profile.File)
	}
	profile, ok := builtinProfiles[cfg.Profile.Name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q, available: %s",
			cfg.Profile.Name, strings.Join(ProfileNames(), ", "))
	}
	return &profile, nil
}

// loadProfileFile reads a profile definition from a YAML file.
func loadProfileFile(path string) (*Profile, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("profile file does not exist: %s", path)
		}
		return nil, fmt.Errorf("read profile file: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(rawData, &profile); err != nil {
		return nil, fmt.Errorf("parse profile yaml: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("profile file %s: %w", path, err)
	}
	return &profile, nil
}

// Validate checks that a profile definition is usable.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile name cannot be empty")
	}
	if len(p.Events) == 0 {
		return errors.New("profile must define at least one event category")
	}
	for i, event := range p.Events {
		if strings.TrimSpace(event) == "" {
			return fmt.Errorf("event category %d is empty", i)
		}
	}
	for _, prefix := range p.ValidIDs {
		if _, ok := p.StudyIDs[prefix]; !ok {
			return fmt.Errorf("valid ID prefix %q has no study ID mapping", prefix)
		}
	}
	return nil
}

// StudyID resolves a project identifier to its study identifier by prefix.
// Unknown prefixes are accepted for filenames but resolve to a sentinel.
func (p *Profile) StudyID(projectID string) string {
	for _, prefix := range p.ValidIDs {
		if strings.HasPrefix(strings.ToUpper(projectID), strings.ToUpper(prefix)) {
			return p.StudyIDs[prefix]
		}
	}
	return "Unknown-Study"
}

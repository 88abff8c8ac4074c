package directory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"spamcheck/internal/domain"
	"spamcheck/internal/phone"
)

// Seed is the on-disk form of extra directory data.
//
//	numbers:
//	  "1-877-555-0100": {location: "Dallas, TX", type: Scam, reports: 12}
//	area_codes:
//	  "214": "Dallas, TX"
type Seed struct {
	Numbers   map[string]domain.DirectoryEntry `yaml:"numbers"`
	AreaCodes map[string]string                `yaml:"area_codes"`
}

// LoadSeed reads a YAML seed file. Number keys are normalized; area codes
// must be exactly three digits.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read directory seed: %w", err)
	}
	var raw Seed
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Seed{}, fmt.Errorf("parse directory seed yaml: %w", err)
	}

	seed := Seed{
		Numbers:   make(map[string]domain.DirectoryEntry, len(raw.Numbers)),
		AreaCodes: make(map[string]string, len(raw.AreaCodes)),
	}
	for key, entry := range raw.Numbers {
		n := phone.Normalize(key)
		if n == "" {
			return Seed{}, fmt.Errorf("directory seed: number %q has no digits", key)
		}
		cat, ok := domain.ParseCategory(string(entry.Category))
		if !ok {
			return Seed{}, fmt.Errorf("directory seed: number %q has unknown type %q", key, entry.Category)
		}
		if entry.KnownReports < 0 {
			return Seed{}, fmt.Errorf("directory seed: number %q has negative reports", key)
		}
		if entry.Location == "" {
			entry.Location = domain.UnknownLocation
		}
		entry.Category = cat
		seed.Numbers[n] = entry
	}
	for code, label := range raw.AreaCodes {
		if len(code) != 3 || phone.Normalize(code) != code {
			return Seed{}, fmt.Errorf("directory seed: area code %q must be 3 digits", code)
		}
		seed.AreaCodes[code] = label
	}
	return seed, nil
}

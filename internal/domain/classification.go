package domain

import "strings"

// UnknownLocation is reported when neither the directory nor the area-code
// table knows a number.
const UnknownLocation = "Unknown location"

type Category string

const (
	CategoryTelemarketer Category = "Telemarketer"
	CategoryScam         Category = "Scam"
	CategoryPolitical    Category = "Political"
	CategoryService      Category = "Service"
	CategoryOther        Category = "Other"
)

var categories = []Category{
	CategoryTelemarketer,
	CategoryScam,
	CategoryPolitical,
	CategoryService,
	CategoryOther,
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// DirectoryEntry is a known number from the seed directory.
type DirectoryEntry struct {
	Location     string   `yaml:"location" json:"location"`
	Category     Category `yaml:"type" json:"type"`
	KnownReports int      `yaml:"reports" json:"reports"`
}

package directory

import "spamcheck/internal/domain"

var builtinNumbers = map[string]domain.DirectoryEntry{
	"18005551234": {Location: "Unknown", Category: domain.CategoryTelemarketer, KnownReports: 45},
	"18885551234": {Location: "United States", Category: domain.CategoryScam, KnownReports: 32},
	"12025551234": {Location: "Washington DC", Category: domain.CategoryPolitical, KnownReports: 18},
	"19005551234": {Location: "Premium Rate", Category: domain.CategoryService, KnownReports: 27},
	"1855551234":  {Location: "New York", Category: domain.CategoryTelemarketer, KnownReports: 15},
	"18665551234": {Location: "Canada", Category: domain.CategoryScam, KnownReports: 22},
}

var builtinAreaCodes = map[string]string{
	"201": "New Jersey",
	"202": "Washington DC",
	"212": "New York, NY",
	"213": "Los Angeles, CA",
	"310": "Los Angeles, CA",
	"312": "Chicago, IL",
	"415": "San Francisco, CA",
	"503": "Portland, OR",
	"617": "Boston, MA",
	"650": "Silicon Valley, CA",
	"800": "Toll-Free (US)",
	"888": "Toll-Free (US)",
	"877": "Toll-Free (US)",
	"866": "Toll-Free (US)",
	"855": "Toll-Free (US)",
	"900": "Premium Rate (US)",
}

// Builtin returns the directory shipped with the binary.
func Builtin() *Directory {
	return New(builtinNumbers, builtinAreaCodes)
}

// Package directory holds the read-only seed data: known spam numbers and
// the area-code location table.
package directory

import (
	"sort"

	"spamcheck/internal/domain"
	"spamcheck/internal/phone"
)

// Directory is immutable once built. Lookups are exact-match only.
type Directory struct {
	numbers   map[string]domain.DirectoryEntry
	areaCodes map[string]string
}

// New copies both tables so later changes to the arguments are not visible.
func New(numbers map[string]domain.DirectoryEntry, areaCodes map[string]string) *Directory {
	d := &Directory{
		numbers:   make(map[string]domain.DirectoryEntry, len(numbers)),
		areaCodes: make(map[string]string, len(areaCodes)),
	}
	for k, v := range numbers {
		d.numbers[k] = v
	}
	for k, v := range areaCodes {
		d.areaCodes[k] = v
	}
	return d
}

func (d *Directory) Lookup(canonical string) (domain.DirectoryEntry, bool) {
	if d == nil {
		return domain.DirectoryEntry{}, false
	}
	e, ok := d.numbers[canonical]
	return e, ok
}

func (d *Directory) AreaCodeLocation(prefix string) (string, bool) {
	if d == nil {
		return "", false
	}
	loc, ok := d.areaCodes[prefix]
	return loc, ok
}

// LocationFor resolves the directory location, then the area-code label,
// then UnknownLocation.
func (d *Directory) LocationFor(canonical string) string {
	if e, ok := d.Lookup(canonical); ok {
		return e.Location
	}
	if loc, ok := d.AreaCodeLocation(phone.AreaCode(canonical)); ok {
		return loc
	}
	return domain.UnknownLocation
}

// Numbers lists every known number in sorted order.
func (d *Directory) Numbers() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.numbers))
	for n := range d.numbers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.numbers)
}

// With returns a new directory with the seed layered over d. Seed entries
// replace existing ones with the same key.
func (d *Directory) With(seed Seed) *Directory {
	out := New(d.numbers, d.areaCodes)
	for k, v := range seed.Numbers {
		out.numbers[k] = v
	}
	for k, v := range seed.AreaCodes {
		out.areaCodes[k] = v
	}
	return out
}

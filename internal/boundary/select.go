package boundary

import (
	"github.com/sells-group/boundary-cli/internal/apperr"
)

// Matches reports whether f is a selectable boundary for name at adminLevel:
// exact name and level, a real geometry, and not a bounds marker.
func (f *Feature) Matches(name, adminLevel string) bool {
	return f.HasName &&
		f.Name == name &&
		f.AdminLevel == adminLevel &&
		!f.IsBoundsMarker() &&
		f.HasGeometry()
}

// Select returns the single feature matching name and adminLevel. It returns
// *apperr.NotFoundError when nothing matches and *apperr.AmbiguousMatchError
// when more than one feature does.
func Select(c *Collection, name, adminLevel string) (*Feature, error) {
	var matches []*Feature
	for _, f := range c.Features {
		if f.Matches(name, adminLevel) {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return nil, notFound(name, adminLevel)
	case 1:
		return matches[0], nil
	default:
		return nil, &apperr.AmbiguousMatchError{Name: name, AdminLevel: adminLevel, Count: len(matches)}
	}
}

// SelectFirst returns the first feature in stored order matching name and
// adminLevel, ignoring any later duplicates.
func SelectFirst(c *Collection, name, adminLevel string) (*Feature, error) {
	for _, f := range c.Features {
		if f.Matches(name, adminLevel) {
			return f, nil
		}
	}
	return nil, notFound(name, adminLevel)
}

func notFound(name, adminLevel string) error {
	return apperr.NewNotFoundError("boundary %q at admin_level %s", name, adminLevel)
}

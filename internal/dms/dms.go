// Package dms parses degrees-minutes-seconds coordinate strings.
//
// Surveyed coordinates arrive in several glyph conventions: ASCII apostrophes and
// quotes, Unicode primes, curly or fullwidth quotes, and non-breaking spaces copied
// from documents. All of them fold to one canonical form before matching.
package dms

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/boundary-cli/internal/apperr"
)

// glyphs maps mark variants to their ASCII form. It runs before NFKC folding,
// which would otherwise turn º into "o" and ´ into a combining accent. Doubled
// single marks come first: the replacer tries patterns in argument order.
var glyphs = strings.NewReplacer(
	"\u2032\u2032", `"`,
	"\u2019\u2019", `"`,
	"''", `"`,
	"\u2033", `"`,
	"\uff02", `"`,
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2032", "'",
	"\u2019", "'",
	"\u2018", "'",
	"\u00b4", "'",
	"\uff07", "'",
	"\u00ba", "\u00b0",
	"\u02da", "\u00b0",
)

var (
	spaceRun = regexp.MustCompile(`\s+`)
	pattern  = regexp.MustCompile(`(?i)^([+-]?\d+(?:\.\d+)?)(?:\s*°\s*|\s+)(\d+(?:\.\d+)?)(?:\s*'\s*|\s+)(\d+(?:\.\d+)?)\s*"?\s*([NSEW])$`)
)

// Normalize folds glyph and whitespace variants of a DMS string into the
// canonical `D° M' S" H` alphabet. It does not validate the result.
func Normalize(s string) string {
	s = norm.NFKC.String(glyphs.Replace(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	s = spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	return strings.TrimRight(s, ".,; ")
}

// Parse converts a DMS string such as `43° 35' 6.94" N` to signed decimal
// degrees. Degree, minute and second marks are optional; the three numeric
// components and the hemisphere letter are not. S and W are negative.
func Parse(s string) (float64, error) {
	v, _, err := parse(s)
	return v, err
}

// ParseLatLon parses a latitude and a longitude string, checking that each
// carries the right hemisphere and lies within range.
func ParseLatLon(lat, lon string) (float64, float64, error) {
	latV, latH, err := parse(lat)
	if err != nil {
		return 0, 0, err
	}
	if latH != 'N' && latH != 'S' {
		return 0, 0, apperr.NewFormatError(lat, "latitude needs N or S hemisphere")
	}
	if math.Abs(latV) > 90 {
		return 0, 0, apperr.NewFormatError(lat, "latitude out of range")
	}

	lonV, lonH, err := parse(lon)
	if err != nil {
		return 0, 0, err
	}
	if lonH != 'E' && lonH != 'W' {
		return 0, 0, apperr.NewFormatError(lon, "longitude needs E or W hemisphere")
	}
	if math.Abs(lonV) > 180 {
		return 0, 0, apperr.NewFormatError(lon, "longitude out of range")
	}

	return latV, lonV, nil
}

func parse(s string) (float64, byte, error) {
	m := pattern.FindStringSubmatch(Normalize(s))
	if m == nil {
		return 0, 0, apperr.NewFormatError(s, "expected degrees, minutes, seconds and hemisphere")
	}

	deg, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, apperr.NewFormatError(s, "bad degrees")
	}
	if deg < 0 {
		return 0, 0, apperr.NewFormatError(s, "sign and hemisphere both given")
	}
	minutes, err := strconv.ParseFloat(m[2], 64)
	if err != nil || minutes >= 60 {
		return 0, 0, apperr.NewFormatError(s, "minutes must be below 60")
	}
	seconds, err := strconv.ParseFloat(m[3], 64)
	if err != nil || seconds >= 60 {
		return 0, 0, apperr.NewFormatError(s, "seconds must be below 60")
	}

	hem := strings.ToUpper(m[4])[0]
	v := deg + minutes/60 + seconds/3600
	if hem == 'S' || hem == 'W' {
		v = -v
	}
	return v, hem, nil
}

// Format renders decimal degrees as a DMS string with two decimal seconds.
// latitude selects N/S over E/W.
func Format(decimal float64, latitude bool) string {
	hem := "E"
	switch {
	case latitude && decimal < 0:
		hem = "S"
	case latitude:
		hem = "N"
	case decimal < 0:
		hem = "W"
	}

	// Work in hundredths of a second so rounding carries into minutes and degrees.
	total := int64(math.Round(math.Abs(decimal) * 360000))
	deg := total / 360000
	minutes := (total % 360000) / 6000
	centis := total % 6000

	return fmt.Sprintf(`%d° %02d' %d.%02d" %s`, deg, minutes, centis/100, centis%100, hem)
}

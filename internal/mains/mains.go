// Package mains resolves the local electrical grid frequency and recognises
// hum at that frequency.
package mains

import (
	"math"
	"strings"

	tz "github.com/medama-io/go-timezone-country"
	"github.com/thlib/go-timezone-local/tzlocal"
)

// Default is the fallback grid frequency; 50 Hz covers most of the world.
const Default = 50

// Frequency returns the local mains frequency in Hz (50 or 60), resolved from
// the runtime timezone. Falls back to Default when detection fails.
func Frequency() int {
	timezone, err := tzlocal.RuntimeTZ()
	if err != nil {
		return Default
	}
	return FrequencyForTimezone(timezone)
}

// FrequencyForTimezone returns the mains frequency for an IANA timezone name.
func FrequencyForTimezone(timezone string) int {
	// No country behind UTC/GMT
	if timezone == "UTC" || timezone == "GMT" || strings.HasPrefix(timezone, "Etc/") {
		return Default
	}

	tzMap, err := tz.NewTimezoneCountryMap()
	if err != nil {
		return Default
	}

	country, err := tzMap.GetCountry(timezone)
	if err != nil {
		return Default
	}

	return FrequencyForCountry(country)
}

// FrequencyForCountry returns the mains frequency for a country name.
// Japan is split by region; the 50 Hz east (Tokyo) is used.
func FrequencyForCountry(country string) int {
	if hz60Countries[country] {
		return 60
	}
	return Default
}

// IsHum reports whether freq lies within tolerance Hz of the fundamental or
// the 2nd/3rd harmonic of either grid frequency. The local frequency is
// checked first so the returned fundamental prefers it.
func IsHum(freq, tolerance float64, local int) (fundamental int, ok bool) {
	if freq <= 0 {
		return 0, false
	}
	candidates := []int{local, 50, 60}
	for _, f := range candidates {
		if f <= 0 {
			continue
		}
		for harmonic := 1; harmonic <= 3; harmonic++ {
			if math.Abs(freq-float64(f*harmonic)) <= tolerance {
				return f, true
			}
		}
	}
	return 0, false
}

// hz60Countries lists countries on 60 Hz mains; everything else is 50 Hz.
// Source: https://en.wikipedia.org/wiki/Mains_electricity_by_country
var hz60Countries = map[string]bool{
	// North America
	"United States": true,
	"Canada":        true,
	"Mexico":        true,

	// Central America
	"Belize":      true,
	"Costa Rica":  true,
	"El Salvador": true,
	"Guatemala":   true,
	"Honduras":    true,
	"Nicaragua":   true,
	"Panama":      true,

	// Caribbean
	"Bahamas":             true,
	"Barbados":            true,
	"Cayman Islands":      true,
	"Cuba":                true,
	"Dominican Republic":  true,
	"Haiti":               true,
	"Jamaica":             true,
	"Puerto Rico":         true,
	"Trinidad and Tobago": true,
	"U.S. Virgin Islands": true,

	// South America; Brazil is mixed but mostly 60 Hz
	"Brazil":    true,
	"Colombia":  true,
	"Ecuador":   true,
	"Guyana":    true,
	"Peru":      true,
	"Suriname":  true,
	"Venezuela": true,

	// Asia
	"South Korea":  true,
	"Taiwan":       true,
	"Philippines":  true,
	"Saudi Arabia": true,

	// Pacific
	"Guam":             true,
	"American Samoa":   true,
	"Marshall Islands": true,
	"Micronesia":       true,
	"Palau":            true,
}

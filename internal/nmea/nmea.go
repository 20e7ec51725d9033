// Package nmea decodes the NMEA 0183 sentences the GPS receiver emits into
// position fixes and status fields. Only the sentence types the tracker
// consumes are handled: GGA (fix + quality + satellites), RMC (fix +
// status) and GSV (satellites in view).
package nmea

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnsupported reports a sentence type the decoder ignores.
	ErrUnsupported = errors.New("unsupported NMEA sentence")

	// ErrMalformed reports a sentence that names a supported type but
	// cannot be decoded. Callers skip it and keep reading.
	ErrMalformed = errors.New("malformed NMEA sentence")
)

// Sentence is the decoded content of one NMEA line. Pointer fields are nil
// when the sentence does not carry that datum.
type Sentence struct {
	Type       string // "GGA", "RMC" or "GSV"
	Latitude   *float64
	Longitude  *float64
	FixQuality *int
	Satellites *int
	RMCStatus  *string
	Time       string // raw hhmmss.sss field, informational only
}

// HasPosition reports whether the sentence carried a usable fix.
func (s *Sentence) HasPosition() bool {
	return s != nil && s.Latitude != nil && s.Longitude != nil
}

// Parse decodes one NMEA line. The checksum fragment after '*' is stripped
// but not verified; the serial layer already discards corrupt lines.
func Parse(line string) (*Sentence, error) {
	core := strings.TrimSpace(line)
	if i := strings.IndexByte(core, '*'); i >= 0 {
		core = core[:i]
	}
	parts := strings.Split(core, ",")
	if len(parts) == 0 || parts[0] == "" {
		return nil, ErrMalformed
	}

	talker := strings.TrimPrefix(parts[0], "$")
	if len(talker) < 3 {
		return nil, ErrMalformed
	}

	switch talker[len(talker)-3:] {
	case "GGA":
		return parseGGA(parts)
	case "RMC":
		return parseRMC(parts)
	case "GSV":
		return parseGSV(parts)
	default:
		return nil, ErrUnsupported
	}
}

// parseGGA decodes $__GGA,time,lat,NS,lon,EW,quality,numSats,...
func parseGGA(parts []string) (*Sentence, error) {
	if len(parts) < 8 {
		return nil, ErrMalformed
	}

	s := &Sentence{Type: "GGA", Time: parts[1]}

	if lat, lon, ok := position(parts[2], parts[3], parts[4], parts[5]); ok {
		s.Latitude, s.Longitude = &lat, &lon
	}
	if q, err := strconv.Atoi(parts[6]); err == nil {
		s.FixQuality = &q
	}
	if n, err := strconv.Atoi(parts[7]); err == nil {
		s.Satellites = &n
	}
	return s, nil
}

// parseRMC decodes $__RMC,time,status,lat,NS,lon,EW,...
func parseRMC(parts []string) (*Sentence, error) {
	if len(parts) < 7 {
		return nil, ErrMalformed
	}

	s := &Sentence{Type: "RMC", Time: parts[1]}

	if parts[2] != "" {
		status := parts[2]
		s.RMCStatus = &status
	}
	if lat, lon, ok := position(parts[3], parts[4], parts[5], parts[6]); ok {
		s.Latitude, s.Longitude = &lat, &lon
	}
	return s, nil
}

// parseGSV decodes $__GSV,total,msgNum,numSats,...; only the satellite
// count is of interest.
func parseGSV(parts []string) (*Sentence, error) {
	if len(parts) < 4 {
		return nil, ErrMalformed
	}

	s := &Sentence{Type: "GSV"}
	if n, err := strconv.Atoi(parts[3]); err == nil {
		s.Satellites = &n
	}
	return s, nil
}

// position converts a lat/lon pair in NMEA ddmm.mmmm form with hemisphere
// letters into signed decimal degrees.
func position(latField, ns, lonField, ew string) (float64, float64, bool) {
	lat, err1 := coordToDecimal(latField, ns)
	lon, err2 := coordToDecimal(lonField, ew)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// coordToDecimal converts ddmm.mmmm (or dddmm.mmmm) plus hemisphere to
// decimal degrees. South and West are negative.
func coordToDecimal(coord, hemi string) (float64, error) {
	dot := strings.IndexByte(coord, '.')
	if dot < 3 {
		return 0, fmt.Errorf("%w: coordinate %q", ErrMalformed, coord)
	}

	degreesLen := dot - 2
	degrees, err := strconv.ParseFloat(coord[:degreesLen], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: coordinate %q", ErrMalformed, coord)
	}
	minutes, err := strconv.ParseFloat(coord[degreesLen:], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: coordinate %q", ErrMalformed, coord)
	}

	dec := degrees + minutes/60.0
	if hemi == "S" || hemi == "W" {
		dec = -dec
	}
	return dec, nil
}

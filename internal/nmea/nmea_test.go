package nmea

import (
	"errors"
	"math"
	"testing"
)

func TestParseGGA(t *testing.T) {
	s, err := Parse("$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if s.Type != "GGA" {
		t.Fatalf("type = %q, want GGA", s.Type)
	}
	if !s.HasPosition() {
		t.Fatal("GGA fix missing position")
	}

	wantLat := 48.0 + 7.038/60
	wantLon := 11.0 + 31.0/60
	if math.Abs(*s.Latitude-wantLat) > 1e-9 || math.Abs(*s.Longitude-wantLon) > 1e-9 {
		t.Fatalf("position = (%f, %f), want (%f, %f)", *s.Latitude, *s.Longitude, wantLat, wantLon)
	}
	if s.FixQuality == nil || *s.FixQuality != 1 {
		t.Fatalf("fix quality = %v, want 1", s.FixQuality)
	}
	if s.Satellites == nil || *s.Satellites != 8 {
		t.Fatalf("satellites = %v, want 8", s.Satellites)
	}
}

func TestParseRMC(t *testing.T) {
	s, err := Parse("$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if s.Type != "RMC" {
		t.Fatalf("type = %q, want RMC", s.Type)
	}
	if s.RMCStatus == nil || *s.RMCStatus != "A" {
		t.Fatalf("RMC status = %v, want A", s.RMCStatus)
	}
	if !s.HasPosition() {
		t.Fatal("RMC fix missing position")
	}
}

func TestParseSouthernWesternHemispheres(t *testing.T) {
	s, err := Parse("$GPGGA,123519,3351.456,S,15112.093,W,1,08,,,,,,,")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if *s.Latitude >= 0 {
		t.Fatalf("southern latitude not negative: %f", *s.Latitude)
	}
	if *s.Longitude >= 0 {
		t.Fatalf("western longitude not negative: %f", *s.Longitude)
	}
}

func TestParseGSV(t *testing.T) {
	s, err := Parse("$GPGSV,3,1,11,03,03,111,00,04,15,270,00,06,01,010,00,13,06,292,00*74")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if s.Satellites == nil || *s.Satellites != 11 {
		t.Fatalf("satellites = %v, want 11", s.Satellites)
	}
}

func TestParseGGAWithoutFix(t *testing.T) {
	// Receivers emit GGA with empty position fields before first fix.
	s, err := Parse("$GPGGA,123519,,,,,0,00,,,,,,,")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if s.HasPosition() {
		t.Fatal("empty position fields decoded as a fix")
	}
	if s.FixQuality == nil || *s.FixQuality != 0 {
		t.Fatalf("fix quality = %v, want 0", s.FixQuality)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"unsupported type", "$GPVTG,054.7,T,034.4,M,005.5,N,010.2,K*48", ErrUnsupported},
		{"empty line", "", ErrMalformed},
		{"truncated GGA", "$GPGGA,123519", ErrMalformed},
		{"no talker", "$A,1,2", ErrMalformed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.line); !errors.Is(err, tc.want) {
				t.Fatalf("Parse(%q) error = %v, want %v", tc.line, err, tc.want)
			}
		})
	}
}

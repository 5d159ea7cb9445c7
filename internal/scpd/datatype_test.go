package scpd

import (
	"bytes"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/upnpctl/internal/upnperr"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		dt   DataType
		in   string
		want any
	}{
		{TypeUI1, "255", uint8(255)},
		{TypeUI2, " 100 ", uint16(100)},
		{TypeUI4, "4294967295", uint32(4294967295)},
		{TypeUI8, "18446744073709551615", uint64(18446744073709551615)},
		{TypeI1, "-128", int8(-128)},
		{TypeI2, "-3", int16(-3)},
		{TypeI4, "2147483647", int32(2147483647)},
		{TypeInt, "-9", int64(-9)},
		{TypeR8, "1.5", 1.5},
		{TypeFixed14_4, "3.1416", 3.1416},
		{TypeChar, "é", 'é'},
		{TypeString, " keep spaces ", " keep spaces "},
		{TypeBoolean, "1", true},
		{TypeBoolean, "no", false},
		{TypeBoolean, "TRUE", true},
		{DataType("vendor:thing"), "x", "x"},
	}
	for _, tt := range tests {
		t.Run(string(tt.dt)+"/"+tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.dt, tt.in)
			if err != nil {
				t.Fatalf("ParseValue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseValue_Structured(t *testing.T) {
	v, err := ParseValue(TypeDateTimeTZ, "2024-03-01T10:20:30+01:00")
	if err != nil {
		t.Fatalf("dateTime.tz: %v", err)
	}
	if ts := v.(time.Time); ts.Hour() != 10 || ts.Format("Z07:00") != "+01:00" {
		t.Errorf("dateTime.tz = %v", ts)
	}

	v, err = ParseValue(TypeDate, "2024-03-01")
	if err != nil || v.(time.Time).Day() != 1 {
		t.Errorf("date = %v, %v", v, err)
	}

	v, err = ParseValue(TypeBase64, "aGVsbG8=")
	if err != nil || !bytes.Equal(v.([]byte), []byte("hello")) {
		t.Errorf("bin.base64 = %v, %v", v, err)
	}

	v, err = ParseValue(TypeHex, "cafe")
	if err != nil || !bytes.Equal(v.([]byte), []byte{0xca, 0xfe}) {
		t.Errorf("bin.hex = %v, %v", v, err)
	}

	v, err = ParseValue(TypeURI, "http://10.0.0.5/a.mp3")
	if err != nil || v.(*url.URL).Host != "10.0.0.5" {
		t.Errorf("uri = %v, %v", v, err)
	}

	v, err = ParseValue(TypeUUID, "4d696e69-444c-164e-9d41-b827eb96c6c2")
	if err != nil || v.(uuid.UUID).String() != "4d696e69-444c-164e-9d41-b827eb96c6c2" {
		t.Errorf("uuid = %v, %v", v, err)
	}
}

func TestParseValue_Invalid(t *testing.T) {
	tests := []struct {
		dt DataType
		in string
	}{
		{TypeUI1, "256"},
		{TypeUI4, "-1"},
		{TypeI1, "128"},
		{TypeR4, "abc"},
		{TypeChar, "ab"},
		{TypeChar, ""},
		{TypeBoolean, "maybe"},
		{TypeDate, "01/03/2024"},
		{TypeHex, "xyz"},
		{TypeUUID, "not-a-uuid"},
	}
	for _, tt := range tests {
		_, err := ParseValue(tt.dt, tt.in)
		if !upnperr.IsValidation(err) {
			t.Errorf("ParseValue(%s, %q) error = %v, want Validation error", tt.dt, tt.in, err)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		dt   DataType
		in   any
		want string
	}{
		{TypeUI2, 100, "100"},
		{TypeUI4, uint32(7), "7"},
		{TypeI4, int32(-7), "-7"},
		{TypeR8, 0.25, "0.25"},
		{TypeFixed14_4, 2.5, "2.5000"},
		{TypeBoolean, true, "1"},
		{TypeBoolean, false, "0"},
		{TypeChar, 'x', "x"},
		{TypeString, "Master", "Master"},
		{TypeUI4, "42", "42"},
		{TypeDate, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-03-01"},
		{TypeTime, time.Date(0, 1, 1, 7, 5, 0, 0, time.UTC), "07:05:00"},
		{TypeBase64, []byte("hello"), "aGVsbG8="},
		{TypeHex, []byte{0xca, 0xfe}, "cafe"},
		{TypeURI, &url.URL{Scheme: "http", Host: "h", Path: "/p"}, "http://h/p"},
	}
	for _, tt := range tests {
		got, err := FormatValue(tt.dt, tt.in)
		if err != nil {
			t.Errorf("FormatValue(%s, %v) error = %v", tt.dt, tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatValue(%s, %v) = %q, want %q", tt.dt, tt.in, got, tt.want)
		}
	}
}

func TestFormatValue_Rejects(t *testing.T) {
	tests := []struct {
		dt DataType
		in any
	}{
		{TypeUI1, 300},
		{TypeUI2, -1},
		{TypeI1, 200},
		{TypeBoolean, "perhaps"},
		{TypeDate, "yesterday"},
		{TypeUUID, 12},
	}
	for _, tt := range tests {
		if _, err := FormatValue(tt.dt, tt.in); !upnperr.IsValidation(err) {
			t.Errorf("FormatValue(%s, %v) error = %v, want Validation error", tt.dt, tt.in, err)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	for dt, v := range map[DataType]any{
		TypeUI8:    uint64(1 << 40),
		TypeI8:     int64(-1 << 40),
		TypeR8:     1e-3,
		TypeUUID:   id,
		TypeChar:   'ß',
		TypeString: "<&>",
	} {
		s, err := FormatValue(dt, v)
		if err != nil {
			t.Fatalf("FormatValue(%s) error = %v", dt, err)
		}
		back, err := ParseValue(dt, s)
		if err != nil {
			t.Fatalf("ParseValue(%s, %q) error = %v", dt, s, err)
		}
		if back != v {
			t.Errorf("%s round trip: %#v -> %q -> %#v", dt, v, s, back)
		}
	}
}

func TestDataType_Metadata(t *testing.T) {
	if !TypeFixed14_4.Known() || DataType("vendor").Known() {
		t.Error("Known() misreports")
	}
	if !TypeUI1.Numeric() || TypeString.Numeric() {
		t.Error("Numeric() misreports")
	}
	if TypeI4.GoType() != "int32" || TypeDateTime.GoType() != "time.Time" {
		t.Error("GoType() misreports")
	}
}

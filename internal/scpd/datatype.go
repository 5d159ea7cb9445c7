package scpd

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DataType is a UDA state variable data type
type DataType string

const (
	TypeUI1        DataType = "ui1"
	TypeUI2        DataType = "ui2"
	TypeUI4        DataType = "ui4"
	TypeUI8        DataType = "ui8"
	TypeI1         DataType = "i1"
	TypeI2         DataType = "i2"
	TypeI4         DataType = "i4"
	TypeI8         DataType = "i8"
	TypeInt        DataType = "int"
	TypeR4         DataType = "r4"
	TypeR8         DataType = "r8"
	TypeNumber     DataType = "number"
	TypeFloat      DataType = "float"
	TypeFixed14_4  DataType = "fixed.14.4"
	TypeChar       DataType = "char"
	TypeString     DataType = "string"
	TypeDate       DataType = "date"
	TypeDateTime   DataType = "dateTime"
	TypeDateTimeTZ DataType = "dateTime.tz"
	TypeTime       DataType = "time"
	TypeTimeTZ     DataType = "time.tz"
	TypeBoolean    DataType = "boolean"
	TypeBase64     DataType = "bin.base64"
	TypeHex        DataType = "bin.hex"
	TypeURI        DataType = "uri"
	TypeUUID       DataType = "uuid"
)

const (
	layoutDate       = "2006-01-02"
	layoutDateTime   = "2006-01-02T15:04:05"
	layoutDateTimeTZ = "2006-01-02T15:04:05Z07:00"
	layoutTime       = "15:04:05"
	layoutTimeTZ     = "15:04:05Z07:00"
)

// Known reports whether dt is one of the UDA data types
func (dt DataType) Known() bool {
	switch dt {
	case TypeUI1, TypeUI2, TypeUI4, TypeUI8, TypeI1, TypeI2, TypeI4, TypeI8, TypeInt,
		TypeR4, TypeR8, TypeNumber, TypeFloat, TypeFixed14_4, TypeChar, TypeString,
		TypeDate, TypeDateTime, TypeDateTimeTZ, TypeTime, TypeTimeTZ, TypeBoolean,
		TypeBase64, TypeHex, TypeURI, TypeUUID:
		return true
	}
	return false
}

// Numeric reports whether values of dt are numbers
func (dt DataType) Numeric() bool {
	switch dt {
	case TypeUI1, TypeUI2, TypeUI4, TypeUI8, TypeI1, TypeI2, TypeI4, TypeI8, TypeInt,
		TypeR4, TypeR8, TypeNumber, TypeFloat, TypeFixed14_4:
		return true
	}
	return false
}

// GoType names the Go type ParseValue returns for dt
func (dt DataType) GoType() string {
	switch dt {
	case TypeUI1:
		return "uint8"
	case TypeUI2:
		return "uint16"
	case TypeUI4:
		return "uint32"
	case TypeUI8:
		return "uint64"
	case TypeI1:
		return "int8"
	case TypeI2:
		return "int16"
	case TypeI4:
		return "int32"
	case TypeI8, TypeInt:
		return "int64"
	case TypeR4, TypeR8, TypeNumber, TypeFloat, TypeFixed14_4:
		return "float64"
	case TypeChar:
		return "rune"
	case TypeDate, TypeDateTime, TypeDateTimeTZ, TypeTime, TypeTimeTZ:
		return "time.Time"
	case TypeBoolean:
		return "bool"
	case TypeBase64, TypeHex:
		return "[]byte"
	case TypeURI:
		return "*url.URL"
	case TypeUUID:
		return "uuid.UUID"
	default:
		return "string"
	}
}

// ParseValue converts a SOAP string to the Go value for dt. Unknown types
// yield the string unchanged.
func ParseValue(dt DataType, s string) (any, error) {
	switch dt {
	case TypeUI1, TypeUI2, TypeUI4, TypeUI8:
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, intBits(dt))
		if err != nil {
			return nil, valueError(dt, s, err)
		}
		switch dt {
		case TypeUI1:
			return uint8(n), nil
		case TypeUI2:
			return uint16(n), nil
		case TypeUI4:
			return uint32(n), nil
		default:
			return n, nil
		}

	case TypeI1, TypeI2, TypeI4, TypeI8, TypeInt:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, intBits(dt))
		if err != nil {
			return nil, valueError(dt, s, err)
		}
		switch dt {
		case TypeI1:
			return int8(n), nil
		case TypeI2:
			return int16(n), nil
		case TypeI4:
			return int32(n), nil
		default:
			return n, nil
		}

	case TypeR4, TypeR8, TypeNumber, TypeFloat, TypeFixed14_4:
		bits := 64
		if dt == TypeR4 {
			bits = 32
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), bits)
		if err != nil {
			return nil, valueError(dt, s, err)
		}
		return f, nil

	case TypeChar:
		if utf8.RuneCountInString(s) != 1 {
			return nil, valueError(dt, s, fmt.Errorf("want exactly one character"))
		}
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil

	case TypeDate:
		return parseTime(dt, s, layoutDate)
	case TypeDateTime:
		return parseTime(dt, s, layoutDateTime)
	case TypeDateTimeTZ:
		return parseTime(dt, s, layoutDateTimeTZ, layoutDateTime)
	case TypeTime:
		return parseTime(dt, s, layoutTime)
	case TypeTimeTZ:
		return parseTime(dt, s, layoutTimeTZ, layoutTime)

	case TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "true", "yes":
			return true, nil
		case "0", "false", "no":
			return false, nil
		}
		return nil, valueError(dt, s, fmt.Errorf("want 0, 1, true, false, yes or no"))

	case TypeBase64:
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return nil, valueError(dt, s, err)
		}
		return b, nil

	case TypeHex:
		b, err := hex.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return nil, valueError(dt, s, err)
		}
		return b, nil

	case TypeURI:
		u, err := url.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, valueError(dt, s, err)
		}
		return u, nil

	case TypeUUID:
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, valueError(dt, s, err)
		}
		return id, nil

	default:
		return s, nil
	}
}

// FormatValue converts a Go value to its SOAP string for dt. Strings are
// checked with ParseValue and passed through unchanged.
func FormatValue(dt DataType, v any) (string, error) {
	if s, ok := v.(string); ok {
		if _, err := ParseValue(dt, s); err != nil {
			return "", err
		}
		return s, nil
	}

	switch dt {
	case TypeUI1, TypeUI2, TypeUI4, TypeUI8:
		n, ok := toUint(v)
		if !ok {
			return "", typeError(dt, v)
		}
		if bits := intBits(dt); bits < 64 && n > 1<<bits-1 {
			return "", valueError(dt, fmt.Sprint(v), fmt.Errorf("out of range"))
		}
		return strconv.FormatUint(n, 10), nil

	case TypeI1, TypeI2, TypeI4, TypeI8, TypeInt:
		n, ok := toInt(v)
		if !ok {
			return "", typeError(dt, v)
		}
		if bits := intBits(dt); bits < 64 && (n < -(1<<(bits-1)) || n > 1<<(bits-1)-1) {
			return "", valueError(dt, fmt.Sprint(v), fmt.Errorf("out of range"))
		}
		return strconv.FormatInt(n, 10), nil

	case TypeR4, TypeR8, TypeNumber, TypeFloat, TypeFixed14_4:
		var f float64
		switch x := v.(type) {
		case float64:
			f = x
		case float32:
			f = float64(x)
		default:
			n, ok := toInt(v)
			if !ok {
				return "", typeError(dt, v)
			}
			f = float64(n)
		}
		if dt == TypeFixed14_4 {
			return strconv.FormatFloat(f, 'f', 4, 64), nil
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil

	case TypeChar:
		if r, ok := v.(rune); ok {
			return string(r), nil
		}

	case TypeDate, TypeDateTime, TypeDateTimeTZ, TypeTime, TypeTimeTZ:
		t, ok := v.(time.Time)
		if !ok {
			return "", typeError(dt, v)
		}
		return t.Format(formatLayout(dt)), nil

	case TypeBoolean:
		if b, ok := v.(bool); ok {
			if b {
				return "1", nil
			}
			return "0", nil
		}

	case TypeBase64:
		if b, ok := v.([]byte); ok {
			return base64.StdEncoding.EncodeToString(b), nil
		}

	case TypeHex:
		if b, ok := v.([]byte); ok {
			return hex.EncodeToString(b), nil
		}

	case TypeURI:
		if u, ok := v.(*url.URL); ok && u != nil {
			return u.String(), nil
		}

	case TypeUUID:
		if id, ok := v.(uuid.UUID); ok {
			return id.String(), nil
		}

	default:
		if s, ok := v.(fmt.Stringer); ok {
			return s.String(), nil
		}
		return fmt.Sprint(v), nil
	}

	return "", typeError(dt, v)
}

// Number returns the numeric value of s for range checks
func Number(dt DataType, s string) (float64, error) {
	v, err := ParseValue(dt, s)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return math.NaN(), fmt.Errorf("%s is not numeric", dt)
}

func intBits(dt DataType) int {
	switch dt {
	case TypeUI1, TypeI1:
		return 8
	case TypeUI2, TypeI2:
		return 16
	case TypeUI4, TypeI4:
		return 32
	default:
		return 64
	}
}

func formatLayout(dt DataType) string {
	switch dt {
	case TypeDate:
		return layoutDate
	case TypeDateTime:
		return layoutDateTime
	case TypeDateTimeTZ:
		return layoutDateTimeTZ
	case TypeTime:
		return layoutTime
	default:
		return layoutTimeTZ
	}
}

func parseTime(dt DataType, s string, layouts ...string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, valueError(dt, s, err)
}

func toUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	}
	if i, ok := toInt(v); ok && i >= 0 {
		return uint64(i), true
	}
	return 0, false
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}

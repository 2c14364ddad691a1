package site

import (
	"errors"
	"fmt"
	"strconv"
)

// Field names of the flat encoding.
const (
	FieldID         = "id"
	FieldCapacity   = "capacity"
	FieldPanels     = "panels"
	FieldAddress    = "address"
	FieldCity       = "city"
	FieldState      = "state"
	FieldPostalCode = "postal_code"
	FieldLat        = "lat"
	FieldLng        = "lng"
)

// ErrDecode is the sentinel matched by every *DecodeError.
var ErrDecode = errors.New("site: decode failed")

// DecodeError reports a stored field that is missing or malformed.
type DecodeError struct {
	Field string
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("site: missing field %q", e.Field)
	}
	return fmt.Sprintf("site: invalid field %q (%q): %v", e.Field, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDecode) hold for any DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Dump flattens s into string fields suitable for a hash entry.
// The coordinate is split into lat and lng, and the ID is always included.
func Dump(s Site) map[string]string {
	return map[string]string{
		FieldID:         strconv.FormatInt(s.ID, 10),
		FieldCapacity:   formatFloat(s.Capacity),
		FieldPanels:     strconv.Itoa(s.Panels),
		FieldAddress:    s.Address,
		FieldCity:       s.City,
		FieldState:      s.State,
		FieldPostalCode: s.PostalCode,
		FieldLat:        formatFloat(s.Coordinate.Lat),
		FieldLng:        formatFloat(s.Coordinate.Lng),
	}
}

// Load is the inverse of Dump. Every field Dump writes is required.
func Load(fields map[string]string) (Site, error) {
	d := decoder{fields: fields}

	s := Site{
		ID:         d.integer(FieldID),
		Capacity:   d.float(FieldCapacity),
		Panels:     int(d.integer(FieldPanels)),
		Address:    d.str(FieldAddress),
		City:       d.str(FieldCity),
		State:      d.str(FieldState),
		PostalCode: d.str(FieldPostalCode),
		Coordinate: Coordinate{
			Lat: d.float(FieldLat),
			Lng: d.float(FieldLng),
		},
	}
	if d.err != nil {
		return Site{}, d.err
	}
	return s, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// decoder records the first failure and turns later reads into no-ops.
type decoder struct {
	fields map[string]string
	err    error
}

func (d *decoder) str(field string) string {
	if d.err != nil {
		return ""
	}
	v, ok := d.fields[field]
	if !ok {
		d.err = &DecodeError{Field: field}
	}
	return v
}

func (d *decoder) integer(field string) int64 {
	v := d.str(field)
	if d.err != nil {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		d.err = &DecodeError{Field: field, Value: v, Err: err}
	}
	return n
}

func (d *decoder) float(field string) float64 {
	v := d.str(field)
	if d.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		d.err = &DecodeError{Field: field, Value: v, Err: err}
	}
	return f
}

package site

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func sampleSite() Site {
	return Site{
		ID:         42,
		Capacity:   4.5,
		Panels:     3,
		Address:    "910 Pine St",
		City:       "Oakland",
		State:      "CA",
		PostalCode: "94577",
		Coordinate: Coordinate{Lat: 37.739659, Lng: -122.255689},
	}
}

// genSite draws an arbitrary valid Site.
func genSite() *rapid.Generator[Site] {
	finite := rapid.Float64().Filter(func(f float64) bool {
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return rapid.Custom(func(t *rapid.T) Site {
		return Site{
			ID:         rapid.Int64().Draw(t, "id"),
			Capacity:   finite.Draw(t, "capacity"),
			Panels:     rapid.Int().Draw(t, "panels"),
			Address:    rapid.String().Draw(t, "address"),
			City:       rapid.String().Draw(t, "city"),
			State:      rapid.String().Draw(t, "state"),
			PostalCode: rapid.String().Draw(t, "postal_code"),
			Coordinate: Coordinate{
				Lat: finite.Draw(t, "lat"),
				Lng: finite.Draw(t, "lng"),
			},
		}
	})
}

func TestDump_Fields(t *testing.T) {
	fields := Dump(sampleSite())

	assert.Equal(t, map[string]string{
		"id":          "42",
		"capacity":    "4.5",
		"panels":      "3",
		"address":     "910 Pine St",
		"city":        "Oakland",
		"state":       "CA",
		"postal_code": "94577",
		"lat":         "37.739659",
		"lng":         "-122.255689",
	}, fields)
}

func TestLoad_RoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := genSite().Draw(rt, "site")

		got, err := Load(Dump(s))
		if err != nil {
			rt.Fatalf("load: %v", err)
		}
		if got != s {
			rt.Fatalf("round trip mismatch: got %+v, want %+v", got, s)
		}
	})
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
		field  string
	}{
		{name: "empty mapping", mutate: func(m map[string]string) { clear(m) }, field: FieldID},
		{name: "missing id", mutate: func(m map[string]string) { delete(m, FieldID) }, field: FieldID},
		{name: "non-numeric id", mutate: func(m map[string]string) { m[FieldID] = "abc" }, field: FieldID},
		{name: "malformed latitude", mutate: func(m map[string]string) { m[FieldLat] = "north" }, field: FieldLat},
		{name: "missing longitude", mutate: func(m map[string]string) { delete(m, FieldLng) }, field: FieldLng},
		{name: "fractional panels", mutate: func(m map[string]string) { m[FieldPanels] = "2.5" }, field: FieldPanels},
		{name: "missing city", mutate: func(m map[string]string) { delete(m, FieldCity) }, field: FieldCity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := Dump(sampleSite())
			tt.mutate(fields)

			_, err := Load(fields)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode))

			var decErr *DecodeError
			require.True(t, errors.As(err, &decErr))
			assert.Equal(t, tt.field, decErr.Field)
		})
	}
}

func TestLoad_IgnoresUnknownFields(t *testing.T) {
	fields := Dump(sampleSite())
	fields["legacy"] = "x"

	got, err := Load(fields)
	require.NoError(t, err)
	assert.Equal(t, sampleSite(), got)
}

func TestReadJSON(t *testing.T) {
	sites, err := ReadJSON(strings.NewReader(`[
		{"id": 1, "capacity": 4.5, "panels": 3, "address": "910 Pine St", "city": "Oakland",
		 "state": "CA", "postal_code": "94577", "coordinate": {"lat": 37.7, "lng": -122.2}},
		{"id": 2, "capacity": 3.0, "panels": 2, "city": "Berkeley"}
	]`))
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, int64(1), sites[0].ID)
	assert.Equal(t, Coordinate{Lat: 37.7, Lng: -122.2}, sites[0].Coordinate)
	assert.Equal(t, "Berkeley", sites[1].City)

	one, err := ReadJSON(strings.NewReader(`{"id": 7, "city": "Fresno"}`))
	require.NoError(t, err)
	assert.Equal(t, []Site{{ID: 7, City: "Fresno"}}, one)

	_, err = ReadJSON(strings.NewReader(`not json`))
	assert.Error(t, err)
}

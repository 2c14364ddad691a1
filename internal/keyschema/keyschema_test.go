package keyschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSiteKeys(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		id      int64
		wantH   string
		wantIDs string
	}{
		{name: "prefixed", prefix: "app", id: 1, wantH: "app:sites:info:1", wantIDs: "app:sites:ids"},
		{name: "no prefix", prefix: "", id: 7, wantH: "sites:info:7", wantIDs: "sites:ids"},
		{name: "negative id", prefix: "test", id: -3, wantH: "test:sites:info:-3", wantIDs: "test:sites:ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := New(tt.prefix)
			assert.Equal(t, tt.wantH, k.SiteHashKey(tt.id))
			assert.Equal(t, tt.wantIDs, k.SiteIDsKey())
		})
	}
}

func TestSiteHashKey_Deterministic_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		k := New(rapid.StringMatching(`[a-z0-9-]{0,12}`).Draw(rt, "prefix"))
		id := rapid.Int64().Draw(rt, "id")

		if k.SiteHashKey(id) != k.SiteHashKey(id) {
			rt.Fatalf("key for %d is not stable", id)
		}
		if k.SiteIDsKey() != k.SiteIDsKey() {
			rt.Fatalf("ids key is not stable")
		}
	})
}

func TestSiteHashKey_Injective_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		k := New("app")
		a := rapid.Int64().Draw(rt, "a")
		b := rapid.Int64().Draw(rt, "b")

		if a != b && k.SiteHashKey(a) == k.SiteHashKey(b) {
			rt.Fatalf("ids %d and %d share key %q", a, b, k.SiteHashKey(a))
		}
		if k.SiteHashKey(a) == k.SiteIDsKey() {
			rt.Fatalf("hash key collides with index key")
		}
	})
}

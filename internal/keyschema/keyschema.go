// Package keyschema derives store keys for every entity the service persists.
package keyschema

import "strconv"

// KeySchema builds keys under an optional namespace prefix, so that several
// deployments (or a test run) can share one store without colliding.
type KeySchema struct {
	Prefix string
}

// New returns a KeySchema rooted at prefix.
func New(prefix string) KeySchema {
	return KeySchema{Prefix: prefix}
}

// SiteHashKey names the hash holding one site's fields.
//
// Example: "app:sites:info:1"
func (k KeySchema) SiteHashKey(id int64) string {
	return k.key("sites:info:" + strconv.FormatInt(id, 10))
}

// SiteIDsKey names the set indexing every stored site ID.
//
// Example: "app:sites:ids"
func (k KeySchema) SiteIDsKey() string {
	return k.key("sites:ids")
}

func (k KeySchema) key(suffix string) string {
	if k.Prefix == "" {
		return suffix
	}
	return k.Prefix + ":" + suffix
}

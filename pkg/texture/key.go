// Package texture resolves the texture identities used by Oolite meshes into
// display aliases and texture file names.
package texture

import (
	"fmt"
	"strconv"
)

// KeyKind tells how a mesh refers to a texture.
type KeyKind uint8

const (
	ByIndex KeyKind = iota // numeric index into the NAMES section
	ByName                 // literal texture file name
)

// String returns a human-readable kind name.
func (k KeyKind) String() string {
	switch k {
	case ByIndex:
		return "index"
	case ByName:
		return "name"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Key identifies a texture either by NAMES index or by literal name. Keys are
// comparable; an index key never equals a name key with the same text.
type Key struct {
	Kind  KeyKind
	Index int
	Name  string
}

// IndexKey returns a key for NAMES index n.
func IndexKey(n int) Key {
	return Key{Kind: ByIndex, Index: n}
}

// NameKey returns a key for a literal texture name.
func NameKey(name string) Key {
	return Key{Kind: ByName, Name: name}
}

// ParseKey tags a raw texture identity. indexed is true when the mesh has a
// NAMES section; only then are decimal identities treated as indices.
func ParseKey(identity string, indexed bool) Key {
	if indexed && isDecimal(identity) {
		if n, err := strconv.Atoi(identity); err == nil {
			return IndexKey(n)
		}
	}
	return NameKey(identity)
}

// String returns the identity as written in the mesh file.
func (k Key) String() string {
	if k.Kind == ByIndex {
		return strconv.Itoa(k.Index)
	}
	return k.Name
}

// MarshalYAML renders the key for debug dumps.
func (k Key) MarshalYAML() (interface{}, error) {
	return k.Kind.String() + ":" + k.String(), nil
}

func isDecimal(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

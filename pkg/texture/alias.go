package texture

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Faultbox/dat2obj/pkg/formats"
)

// DefaultSuffix is appended to aliases to form material names.
const DefaultSuffix = "_auv"

// UnknownRealName is the texture file name used when none is known.
const UnknownRealName = "."

// Alias is the resolved identity of one texture.
type Alias struct {
	Key      Key    `yaml:"key"`
	Alias    string `yaml:"alias"`
	RealName string `yaml:"real_name"`
}

// Map holds texture aliases in insertion order.
type Map struct {
	order   []Key
	entries map[Key]Alias
}

// NewMap seeds a map with index entries from the NAMES section.
func NewMap(names []formats.NameEntry) *Map {
	m := &Map{entries: make(map[Key]Alias, len(names))}
	for _, n := range names {
		m.put(Alias{Key: IndexKey(n.Index), Alias: n.Alias, RealName: n.RealName})
	}
	return m
}

func (m *Map) put(a Alias) {
	if _, ok := m.entries[a.Key]; !ok {
		m.order = append(m.order, a.Key)
	}
	m.entries[a.Key] = a
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.order)
}

// Lookup returns the alias entry for key.
func (m *Map) Lookup(key Key) (Alias, bool) {
	a, ok := m.entries[key]
	return a, ok
}

// AddMissing adds an entry for every key not already present. The texture is
// assumed to be referenced by file name: the alias drops the extension and
// the real name is the identity itself. Existing entries are left alone.
// Returns the number of entries added.
func (m *Map) AddMissing(keys []Key) int {
	added := 0
	for _, k := range keys {
		if _, ok := m.entries[k]; ok {
			continue
		}
		name := k.String()
		alias := strings.TrimSuffix(name, filepath.Ext(name))
		if alias == "" || strings.HasSuffix(alias, "/") {
			alias = name
		}
		m.put(Alias{Key: k, Alias: alias, RealName: name})
		added++
	}
	return added
}

// MaterialName returns the material name for key: its alias plus suffix, or
// "tex<identity><suffix>" when the key is unknown.
func (m *Map) MaterialName(key Key, suffix string) string {
	if a, ok := m.entries[key]; ok {
		return a.Alias + suffix
	}
	return "tex" + key.String() + suffix
}

// RealName returns the texture file name for key, or "." when unknown.
func (m *Map) RealName(key Key) string {
	if a, ok := m.entries[key]; ok {
		return a.RealName
	}
	return UnknownRealName
}

// Entries returns the entries in insertion order.
func (m *Map) Entries() []Alias {
	out := make([]Alias, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.entries[k])
	}
	return out
}

// Sorted returns the entries with index keys first in numeric order, then
// name keys in lexical order. Index 10 sorts after index 2, unlike a plain
// string sort of the identities.
func (m *Map) Sorted() []Alias {
	out := m.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Kind != b.Kind {
			return a.Kind == ByIndex
		}
		if a.Kind == ByIndex {
			return a.Index < b.Index
		}
		return a.Name < b.Name
	})
	return out
}

// Resolve builds the alias map for a mesh: index entries from names, then
// entries for every identity of the texture data not covered by them.
// indexed tells whether the mesh has a NAMES section. It returns the map and
// the tagged key for each identity, in the order given.
func Resolve(names []formats.NameEntry, identities []string, indexed bool) (*Map, []Key) {
	m := NewMap(names)
	keys := make([]Key, len(identities))
	for i, id := range identities {
		keys[i] = ParseKey(id, indexed)
	}
	m.AddMissing(keys)
	return m, keys
}

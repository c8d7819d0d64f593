// Package formats provides parsers for Oolite mesh files and their companions.
// DAT (Oolite mesh) section scanner.
package formats

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Faultbox/dat2obj/pkg/encoding"
)

// DAT format errors.
var (
	ErrNoSections    = errors.New("no sections found: not an Oolite .dat file")
	ErrCountMismatch = errors.New("declared entry count does not match data")
	ErrBadCount      = errors.New("invalid entry count declaration")
	ErrCrossRef      = errors.New("texture and face data do not match")
	ErrMalformedData = errors.New("malformed section data")
)

// Section names used by the converter.
const (
	SectionNVerts   = "NVERTS"
	SectionNFaces   = "NFACES"
	SectionVertex   = "VERTEX"
	SectionFaces    = "FACES"
	SectionNormals  = "NORMALS"
	SectionTextures = "TEXTURES"
	SectionNames    = "NAMES"
	SectionEnd      = "END"
)

var (
	// Arguments are space separated only: TEXTURES data is tab separated and
	// may start with an upper-case identity.
	headerRe  = regexp.MustCompile(`(?m)^([A-Z][A-Z]+)( +.*)?$`)
	commentRe = regexp.MustCompile(`[ \t]*#.*`)
)

// Section is a named block of a .dat file.
type Section struct {
	Name      string   `yaml:"name"`
	Arguments string   `yaml:"arguments,omitempty"`
	Lines     []string `yaml:"lines,omitempty"`
}

// Sections holds the sections of a .dat file in first-seen order.
type Sections struct {
	order  []string
	byName map[string]Section
}

// Len returns the number of distinct sections.
func (s *Sections) Len() int {
	return len(s.order)
}

// Names returns section names in the order they first appeared.
func (s *Sections) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Get returns the named section.
func (s *Sections) Get(name string) (Section, bool) {
	sec, ok := s.byName[name]
	return sec, ok
}

// Has reports whether the named section is present.
func (s *Sections) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Lines returns the data lines of the named section, or nil if absent.
func (s *Sections) Lines(name string) []string {
	return s.byName[name].Lines
}

// All returns every section in order.
func (s *Sections) All() []Section {
	out := make([]Section, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

func (s *Sections) put(sec Section) {
	if _, ok := s.byName[sec.Name]; !ok {
		s.order = append(s.order, sec.Name)
	}
	s.byName[sec.Name] = sec
}

// ParseSections splits raw .dat text into sections.
func ParseSections(text string) (*Sections, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	secs := &Sections{byName: make(map[string]Section)}

	matches := headerRe.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		sec := Section{Name: text[m[2]:m[3]]}
		if m[4] >= 0 {
			sec.Arguments = strings.TrimSpace(text[m[4]:m[5]])
		}

		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sec.Lines = splitData(text[m[1]:end])
		secs.put(sec)
	}

	if secs.Len() == 0 {
		return nil, ErrNoSections
	}
	return secs, nil
}

// ParseDATFile reads a .dat file in the given charset and scans it.
func ParseDATFile(path, charset string) (*Sections, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading DAT file: %w", err)
	}
	text, err := encoding.Decode(encoding.TrimNullBytes(data), charset)
	if err != nil {
		return nil, err
	}
	return ParseSections(text)
}

// splitData strips comments and returns the non-blank lines of a chunk.
func splitData(chunk string) []string {
	chunk = commentRe.ReplaceAllString(chunk, "")

	var lines []string
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitFields splits a data line on commas if it has any, else on whitespace.
func splitFields(line string) []string {
	if strings.Contains(line, ",") {
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return strings.Fields(line)
}

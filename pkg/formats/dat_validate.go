package formats

import (
	"fmt"
	"strconv"
	"strings"
)

// CountCheck identifies one count declaration rule.
type CountCheck int

const (
	CheckVertexCount CountCheck = iota // NVERTS vs VERTEX
	CheckFaceCount                     // NFACES vs FACES
	CheckNameCount                     // NAMES argument vs NAMES lines
)

// String returns the declaration section name of the check.
func (c CountCheck) String() string {
	if r, ok := countRules[c]; ok {
		return r.declaration
	}
	return fmt.Sprintf("Unknown(%d)", int(c))
}

type countRule struct {
	declaration string
	data        string
	// optional rules accept a declaration header with no count argument.
	optional bool
}

var countRules = map[CountCheck]countRule{
	CheckVertexCount: {declaration: SectionNVerts, data: SectionVertex},
	CheckFaceCount:   {declaration: SectionNFaces, data: SectionFaces},
	CheckNameCount:   {declaration: SectionNames, data: SectionNames, optional: true},
}

// CountChecks lists the checks in the order Validate runs them.
var CountChecks = []CountCheck{CheckVertexCount, CheckFaceCount, CheckNameCount}

// CountError reports a declared count that differs from the data.
type CountError struct {
	Section  string
	Declared int
	Actual   int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("number of entries in %s section is different as declared: declared %d, found %d",
		e.Section, e.Declared, e.Actual)
}

func (e *CountError) Unwrap() error {
	return ErrCountMismatch
}

// Validate compares every present count declaration with the number of data
// lines in its data section. Absent declarations are not checked.
func Validate(secs *Sections) error {
	for _, check := range CountChecks {
		if err := ValidateCount(secs, check); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCount runs a single check.
func ValidateCount(secs *Sections, check CountCheck) error {
	rule, ok := countRules[check]
	if !ok {
		return fmt.Errorf("unknown count check %d", int(check))
	}

	decl, ok := secs.Get(rule.declaration)
	if !ok {
		return nil
	}

	fields := strings.Fields(decl.Arguments)
	if len(fields) == 0 {
		if rule.optional {
			return nil
		}
		return fmt.Errorf("%w: %s has no count", ErrBadCount, rule.declaration)
	}

	declared, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("%w: %s count %q", ErrBadCount, rule.declaration, fields[0])
	}

	actual := len(secs.Lines(rule.data))
	if declared != actual {
		return &CountError{Section: rule.declaration, Declared: declared, Actual: actual}
	}
	return nil
}

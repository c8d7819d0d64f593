package formats

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
		section string
	}{
		{
			name: "counts match",
			text: cubeDAT,
		},
		{
			name:    "vertex count mismatch",
			text:    "NVERTS 5\nVERTEX\n1 2 3\n4 5 6\n7 8 9\n1 1 1\nEND\n",
			wantErr: ErrCountMismatch,
			section: SectionNVerts,
		},
		{
			name:    "face count mismatch",
			text:    "NFACES 1\nFACES\nEND\n",
			wantErr: ErrCountMismatch,
			section: SectionNFaces,
		},
		{
			name:    "declaration without data section",
			text:    "NVERTS 2\nEND\n",
			wantErr: ErrCountMismatch,
			section: SectionNVerts,
		},
		{
			name: "zero declared without data section",
			text: "NVERTS 0\nNFACES 0\nEND\n",
		},
		{
			name:    "names count mismatch",
			text:    "NAMES 3\nhull\nengine\nEND\n",
			wantErr: ErrCountMismatch,
			section: SectionNames,
		},
		{
			name: "names without count",
			text: "NAMES\nhull\nengine\nEND\n",
		},
		{
			name:    "vertex count missing",
			text:    "NVERTS\nVERTEX\n1 2 3\n",
			wantErr: ErrBadCount,
		},
		{
			name:    "face count not a number",
			text:    "NFACES many\nFACES\n",
			wantErr: ErrBadCount,
		},
		{
			name: "no declarations",
			text: "VERTEX\n1 2 3\nFACES\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secs, err := ParseSections(tt.text)
			if err != nil {
				t.Fatalf("ParseSections failed: %v", err)
			}

			err = Validate(secs)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}

			if tt.section != "" {
				var ce *CountError
				if !errors.As(err, &ce) {
					t.Fatalf("expected *CountError, got %T", err)
				}
				if ce.Section != tt.section {
					t.Errorf("CountError.Section = %s, want %s", ce.Section, tt.section)
				}
			}
		})
	}
}

func TestCountError(t *testing.T) {
	secs, err := ParseSections("NVERTS 5\nVERTEX\n1 2 3\n4 5 6\n7 8 9\n1 1 1\n")
	if err != nil {
		t.Fatal(err)
	}

	err = ValidateCount(secs, CheckVertexCount)
	var ce *CountError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CountError, got %v", err)
	}
	if ce.Declared != 5 || ce.Actual != 4 {
		t.Errorf("declared/actual = %d/%d, want 5/4", ce.Declared, ce.Actual)
	}
	want := "number of entries in NVERTS section is different as declared: declared 5, found 4"
	if ce.Error() != want {
		t.Errorf("Error() = %q, want %q", ce.Error(), want)
	}
}

func TestCountCheckString(t *testing.T) {
	tests := []struct {
		check CountCheck
		want  string
	}{
		{CheckVertexCount, "NVERTS"},
		{CheckFaceCount, "NFACES"},
		{CheckNameCount, "NAMES"},
		{CountCheck(42), "Unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.check.String(); got != tt.want {
			t.Errorf("CountCheck(%d).String() = %s, want %s", int(tt.check), got, tt.want)
		}
	}
}

func TestValidateCountUnknownCheck(t *testing.T) {
	secs, err := ParseSections("END\n")
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateCount(secs, CountCheck(99)); err == nil {
		t.Error("expected error for unknown check")
	}
}

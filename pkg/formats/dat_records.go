package formats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// NoNormal marks a face without a normal reference.
const NoNormal = -1

// minFaceTokens is color(3) + normal(3) + point count + at least 3 points.
const minFaceTokens = 10

// NameEntry is one NAMES line resolved against the index file.
type NameEntry struct {
	Index    int    `yaml:"index"`
	Alias    string `yaml:"alias"`
	RealName string `yaml:"real_name"`
}

// TextureLink ties a face position to its texture identity and UV indices.
type TextureLink struct {
	Identity string `yaml:"identity"`
	UV       []int  `yaml:"uv"`
}

// TextureTable is the parsed TEXTURES section.
type TextureTable struct {
	// Deduplicated texture coordinates, V already flipped.
	Coords []mgl64.Vec2

	// Links indexed by face position.
	Links []TextureLink

	byIdentity map[string]map[int][]int
	identities []string
	coordIndex map[string]int
}

// Face is a parsed FACES line linked to its texture data.
type Face struct {
	Position    int    `yaml:"position"`
	Identity    string `yaml:"identity"`
	VertexIDs   []int  `yaml:"vertices"`
	TexCoordIDs []int  `yaml:"uvs"`
	NormalID    int    `yaml:"normal"`
}

// HasNormal reports whether the face references a normal.
func (f Face) HasNormal() bool {
	return f.NormalID != NoNormal
}

// CrossRefError reports a face that has no matching texture record.
type CrossRefError struct {
	Position int
	Identity string
	Reason   string
}

func (e *CrossRefError) Error() string {
	if e.Identity == "" {
		return fmt.Sprintf("face %d: %s", e.Position, e.Reason)
	}
	return fmt.Sprintf("face %d (texture %q): %s", e.Position, e.Identity, e.Reason)
}

func (e *CrossRefError) Unwrap() error {
	return ErrCrossRef
}

// ParseVertices parses VERTEX lines. Lines without exactly three numbers are
// skipped. X is mirrored.
func ParseVertices(lines []string) []mgl64.Vec3 {
	return parseVec3Lines(lines)
}

// ParseNormals parses NORMALS lines the same way as vertices.
func ParseNormals(lines []string) []mgl64.Vec3 {
	return parseVec3Lines(lines)
}

func parseVec3Lines(lines []string) []mgl64.Vec3 {
	var out []mgl64.Vec3
	for _, line := range lines {
		tokens := splitFields(line)
		if len(tokens) != 3 {
			continue
		}

		var v mgl64.Vec3
		ok := true
		for i, tok := range tokens {
			f, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				ok = false
				break
			}
			v[i] = f
		}
		if !ok {
			continue
		}

		v[0] = -v[0]
		out = append(out, v)
	}
	return out
}

// FormatVec3 renders a vector with fixed 6-decimal precision.
func FormatVec3(v mgl64.Vec3) string {
	return fmt.Sprintf("%.6f %.6f %.6f", v[0], v[1], v[2])
}

// FormatVec2 renders a texture coordinate with fixed 6-decimal precision.
func FormatVec2(v mgl64.Vec2) string {
	return fmt.Sprintf("%.6f %.6f", v[0], v[1])
}

// ParseNames builds the index-keyed name entries. realNames comes from the
// index file; missing entries resolve to ".".
func ParseNames(lines []string, realNames []string) []NameEntry {
	entries := make([]NameEntry, len(lines))
	for i, line := range lines {
		real := "."
		if i < len(realNames) {
			real = realNames[i]
		}
		entries[i] = NameEntry{Index: i, Alias: line, RealName: real}
	}
	return entries
}

// ParseTextures parses TEXTURES lines. Face positions are assigned in line
// order starting at 0.
func ParseTextures(lines []string) (*TextureTable, error) {
	t := &TextureTable{
		byIdentity: make(map[string]map[int][]int),
		coordIndex: make(map[string]int),
	}

	for n, line := range lines {
		tokens := splitTabs(line)
		if len(tokens) == 0 {
			continue
		}
		pos := len(t.Links)
		identity := tokens[0]

		var points []string
		if len(tokens) > 2 {
			points = tokens[2:]
		}

		uv := make([]int, 0, len(points))
		for _, point := range points {
			idx, err := t.addCoord(point)
			if err != nil {
				return nil, fmt.Errorf("%w: TEXTURES line %d: %v", ErrMalformedData, n+1, err)
			}
			uv = append(uv, idx)
		}

		if _, ok := t.byIdentity[identity]; !ok {
			t.byIdentity[identity] = make(map[int][]int)
			t.identities = append(t.identities, identity)
		}
		t.byIdentity[identity][pos] = uv
		t.Links = append(t.Links, TextureLink{Identity: identity, UV: uv})
	}

	return t, nil
}

// addCoord flips V, renders the pair and returns its table index.
func (t *TextureTable) addCoord(point string) (int, error) {
	fields := strings.Fields(point)
	if len(fields) < 2 {
		return 0, fmt.Errorf("expected a u v pair, got %q", point)
	}
	u, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("bad u value %q", fields[0])
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, fmt.Errorf("bad v value %q", fields[1])
	}

	coord := mgl64.Vec2{u, 1 - v}
	key := FormatVec2(coord)
	if idx, ok := t.coordIndex[key]; ok {
		return idx, nil
	}
	idx := len(t.Coords)
	t.Coords = append(t.Coords, coord)
	t.coordIndex[key] = idx
	return idx, nil
}

// Identities returns the texture identities in first-seen order.
func (t *TextureTable) Identities() []string {
	out := make([]string, len(t.identities))
	copy(out, t.identities)
	return out
}

// Link returns the texture link at a face position.
func (t *TextureTable) Link(pos int) (TextureLink, bool) {
	if pos < 0 || pos >= len(t.Links) {
		return TextureLink{}, false
	}
	return t.Links[pos], true
}

// LinkFor returns the UV indices recorded for identity at pos.
func (t *TextureTable) LinkFor(identity string, pos int) ([]int, bool) {
	byPos, ok := t.byIdentity[identity]
	if !ok {
		return nil, false
	}
	uv, ok := byPos[pos]
	return uv, ok
}

// ByIdentity returns a copy of the identity -> position -> UV index.
func (t *TextureTable) ByIdentity() map[string]map[int][]int {
	out := make(map[string]map[int][]int, len(t.byIdentity))
	for id, byPos := range t.byIdentity {
		m := make(map[int][]int, len(byPos))
		for pos, uv := range byPos {
			m[pos] = uv
		}
		out[id] = m
	}
	return out
}

// ParseFaces parses FACES lines and links each face to the texture data at
// the same position. Lines with too few tokens are skipped and do not take a
// position. hasNormals selects whether faces reference the normal at their
// position.
func ParseFaces(lines []string, tex *TextureTable, hasNormals bool) ([]Face, error) {
	var faces []Face
	pos := 0
	for _, line := range lines {
		tokens := splitFields(line)
		if len(tokens) < minFaceTokens {
			continue
		}

		link, ok := tex.Link(pos)
		if !ok {
			return nil, &CrossRefError{Position: pos, Reason: "no texture record at this position"}
		}
		if _, ok := tex.byIdentity[link.Identity]; !ok {
			return nil, &CrossRefError{Position: pos, Identity: link.Identity, Reason: "texture name not found in references"}
		}
		uv, ok := tex.LinkFor(link.Identity, pos)
		if !ok {
			return nil, &CrossRefError{Position: pos, Identity: link.Identity, Reason: "position not found in texture references"}
		}

		n, err := strconv.Atoi(tokens[6])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: face %d: bad point count %q", ErrMalformedData, pos, tokens[6])
		}
		points := tokens[7:]
		if n > len(points) {
			return nil, fmt.Errorf("%w: face %d: declares %d points, lists %d", ErrMalformedData, pos, n, len(points))
		}
		if n > len(uv) {
			return nil, &CrossRefError{
				Position: pos,
				Identity: link.Identity,
				Reason:   fmt.Sprintf("face has %d points but only %d texture coordinates", n, len(uv)),
			}
		}

		face := Face{
			Position:    pos,
			Identity:    link.Identity,
			VertexIDs:   make([]int, n),
			TexCoordIDs: make([]int, n),
			NormalID:    NoNormal,
		}
		for i := 0; i < n; i++ {
			vid, err := strconv.Atoi(points[i])
			if err != nil || vid < 0 {
				return nil, fmt.Errorf("%w: face %d: bad vertex index %q", ErrMalformedData, pos, points[i])
			}
			face.VertexIDs[i] = vid
			face.TexCoordIDs[i] = uv[i]
		}
		if hasNormals {
			face.NormalID = pos
		}

		faces = append(faces, face)
		pos++
	}
	return faces, nil
}

// splitTabs splits on tabs, collapsing runs.
func splitTabs(line string) []string {
	var out []string
	for _, tok := range strings.Split(line, "\t") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

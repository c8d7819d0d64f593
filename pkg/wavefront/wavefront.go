// Package wavefront writes and reads the subset of Wavefront OBJ and MTL used
// for converted Oolite meshes.
package wavefront

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// Header is written at the top of every OBJ and MTL file.
const Header = `# Exported with dat2obj
# Converted from an Oolite .dat mesh`

// DefaultMaterialName is used when a mesh has no texture at all.
const DefaultMaterialName = "tex0_auv"

// NoIndex marks an absent texture coordinate or normal reference.
const NoIndex = -1

// Wavefront errors.
var (
	ErrIndexOutOfRange = errors.New("face index out of range")
	ErrBadStatement    = errors.New("malformed statement")
)

// Point is one corner of a face. Indices are 0-based; NoIndex marks an
// omitted slot.
type Point struct {
	Vertex   int
	TexCoord int
	Normal   int
}

// Face is a polygon.
type Face struct {
	Points []Point
}

// Group is a named run of faces sharing a material.
type Group struct {
	Name     string
	Material string
	Faces    []Face
}

// Object is a complete OBJ file.
type Object struct {
	Name        string
	MaterialLib string
	Vertices    []mgl64.Vec3
	TexCoords   []mgl64.Vec2
	Normals     []mgl64.Vec3
	Groups      []Group

	// DanglingNormals counts face normal references past the vn data. Only
	// ReadOBJ sets it; such points get Normal NoIndex.
	DanglingNormals int
}

// FaceCount returns the number of faces across all groups.
func (o *Object) FaceCount() int {
	n := 0
	for _, g := range o.Groups {
		n += len(g.Faces)
	}
	return n
}

// Material is one MTL entry.
type Material struct {
	Name    string
	Texture string
}

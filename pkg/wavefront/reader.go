package wavefront

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ReadOBJ parses an OBJ stream. Faces may use the v, v/vt, v//vn or v/vt/vn
// forms, with positive or negative (relative) indices. Vertex and texture
// references are checked against the data declared before it. Converted
// meshes often carry fewer normals than faces, so a normal reference past the
// end is counted in DanglingNormals instead of failing.
func ReadOBJ(r io.Reader) (*Object, error) {
	obj := &Object{}
	var cur *Group
	curMaterial := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		tokens := strings.Fields(line)
		var err error
		switch tokens[0] {
		case "mtllib":
			obj.MaterialLib = strings.Join(tokens[1:], " ")
		case "o":
			obj.Name = strings.Join(tokens[1:], " ")
		case "v":
			var v mgl64.Vec3
			v, err = parseVec3(tokens[1:])
			obj.Vertices = append(obj.Vertices, v)
		case "vn":
			var vn mgl64.Vec3
			vn, err = parseVec3(tokens[1:])
			obj.Normals = append(obj.Normals, vn)
		case "vt":
			var vt mgl64.Vec2
			vt, err = parseVec2(tokens[1:])
			obj.TexCoords = append(obj.TexCoords, vt)
		case "g":
			obj.Groups = append(obj.Groups, Group{Name: strings.Join(tokens[1:], " "), Material: curMaterial})
			cur = &obj.Groups[len(obj.Groups)-1]
		case "usemtl":
			curMaterial = strings.Join(tokens[1:], " ")
			if cur == nil || len(cur.Faces) > 0 {
				obj.Groups = append(obj.Groups, Group{Material: curMaterial})
				cur = &obj.Groups[len(obj.Groups)-1]
			} else {
				cur.Material = curMaterial
			}
		case "f":
			var f Face
			f, err = parseFace(tokens[1:], obj)
			if err == nil {
				if cur == nil {
					obj.Groups = append(obj.Groups, Group{Material: curMaterial})
					cur = &obj.Groups[len(obj.Groups)-1]
				}
				cur.Faces = append(cur.Faces, f)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return obj, nil
}

// ReadOBJFile parses an OBJ file from disk.
func ReadOBJFile(path string) (*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()
	return ReadOBJ(f)
}

// ReadMTL parses the material names and diffuse maps of an MTL stream.
func ReadMTL(r io.Reader) ([]Material, error) {
	var mats []Material
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		tokens := strings.Fields(line)
		switch tokens[0] {
		case "newmtl":
			if len(tokens) < 2 {
				return nil, fmt.Errorf("line %d: %w: newmtl without a name", lineNum, ErrBadStatement)
			}
			mats = append(mats, Material{Name: strings.Join(tokens[1:], " ")})
		case "map_Kd":
			if len(mats) == 0 {
				return nil, fmt.Errorf("line %d: %w: map_Kd outside a material", lineNum, ErrBadStatement)
			}
			mats[len(mats)-1].Texture = strings.Join(tokens[1:], " ")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mats, nil
}

// ReadMTLFile parses an MTL file from disk.
func ReadMTLFile(path string) ([]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening MTL file: %w", err)
	}
	defer f.Close()
	return ReadMTL(f)
}

func parseFace(args []string, obj *Object) (Face, error) {
	if len(args) < 3 {
		return Face{}, fmt.Errorf("%w: face needs at least 3 points, got %d", ErrBadStatement, len(args))
	}

	face := Face{Points: make([]Point, len(args))}
	for i, arg := range args {
		parts := strings.Split(arg, "/")
		if len(parts) > 3 || parts[0] == "" {
			return Face{}, fmt.Errorf("%w: face point %q", ErrBadStatement, arg)
		}

		p := Point{TexCoord: NoIndex, Normal: NoIndex}
		var err error
		if p.Vertex, err = selectIndex(parts[0], len(obj.Vertices)); err != nil {
			return Face{}, fmt.Errorf("vertex of point %d: %w", i, err)
		}
		if len(parts) > 1 && parts[1] != "" {
			if p.TexCoord, err = selectIndex(parts[1], len(obj.TexCoords)); err != nil {
				return Face{}, fmt.Errorf("tex coord of point %d: %w", i, err)
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			p.Normal, err = selectIndex(parts[2], len(obj.Normals))
			if errors.Is(err, ErrIndexOutOfRange) {
				obj.DanglingNormals++
				p.Normal = NoIndex
			} else if err != nil {
				return Face{}, fmt.Errorf("normal of point %d: %w", i, err)
			}
		}
		face.Points[i] = p
	}
	return face, nil
}

// selectIndex converts a 1-based or negative relative index to 0-based.
func selectIndex(token string, listLen int) (int, error) {
	index, err := strconv.Atoi(token)
	if err != nil {
		return NoIndex, fmt.Errorf("%w: index %q", ErrBadStatement, token)
	}

	offset := index - 1
	if index < 0 {
		offset = listLen + index
	}
	if index == 0 || offset < 0 || offset >= listLen {
		return NoIndex, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, listLen)
	}
	return offset, nil
}

func parseVec3(args []string) (mgl64.Vec3, error) {
	var v mgl64.Vec3
	if len(args) < 3 {
		return v, fmt.Errorf("%w: expected 3 values, got %d", ErrBadStatement, len(args))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return v, fmt.Errorf("%w: %q is not a number", ErrBadStatement, args[i])
		}
		v[i] = f
	}
	return v, nil
}

func parseVec2(args []string) (mgl64.Vec2, error) {
	var v mgl64.Vec2
	if len(args) < 2 {
		return v, fmt.Errorf("%w: expected 2 values, got %d", ErrBadStatement, len(args))
	}
	for i := 0; i < 2; i++ {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return v, fmt.Errorf("%w: %q is not a number", ErrBadStatement, args[i])
		}
		v[i] = f
	}
	return v, nil
}

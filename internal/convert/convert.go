// Package convert turns Oolite .dat meshes into Wavefront OBJ/MTL pairs.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/dat2obj/internal/config"
	"github.com/Faultbox/dat2obj/internal/logger"
	"github.com/Faultbox/dat2obj/pkg/encoding"
	"github.com/Faultbox/dat2obj/pkg/formats"
	"github.com/Faultbox/dat2obj/pkg/texture"
	"github.com/Faultbox/dat2obj/pkg/wavefront"
)

// Options control a conversion.
type Options struct {
	MaterialSuffix  string
	Debug           bool
	Charset         string
	LowercaseOutput bool
	IndexExt        string
}

// DefaultOptions returns the options matching the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Convert)
}

// OptionsFromConfig maps the convert section of the configuration.
func OptionsFromConfig(c config.ConvertConfig) Options {
	return Options{
		MaterialSuffix:  c.MaterialSuffix,
		Debug:           c.Debug,
		Charset:         c.Charset,
		LowercaseOutput: c.LowercaseOutput,
		IndexExt:        c.IndexExt,
	}
}

// Bounds is the axis-aligned bounding box of the converted vertices.
type Bounds struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Size returns the box extent on each axis.
func (b Bounds) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Mesh is a converted mesh held in memory.
type Mesh struct {
	Object    *wavefront.Object
	Materials []wavefront.Material
	Aliases   *texture.Map
	// Faces referencing a vertex index past the VERTEX data.
	DanglingRefs int
}

// Bounds computes the bounding box of the mesh vertices.
func (m *Mesh) Bounds() Bounds {
	if len(m.Object.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Object.Vertices[0], Max: m.Object.Vertices[0]}
	for _, v := range m.Object.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < b.Min[i] {
				b.Min[i] = v[i]
			}
			if v[i] > b.Max[i] {
				b.Max[i] = v[i]
			}
		}
	}
	return b
}

// Result summarizes one converted file.
type Result struct {
	Input     string
	OBJPath   string
	MTLPath   string
	Vertices  int
	Faces     int
	Normals   int
	TexCoords int
	Groups    int
	Materials int
	Bounds    Bounds
	Duration  time.Duration
}

// Convert runs the conversion pipeline on decoded .dat text. objName names
// the OBJ object and prefixes group names; mtlLib is the MTL file referenced
// by the OBJ; realNames are the index file entries (may be empty). Every
// fatal problem is reported here, before anything is written.
func Convert(objName, mtlLib, text string, realNames []string, opts Options, dump Dumper) (*Mesh, error) {
	if dump == nil {
		dump = nopDumper{}
	}
	suffix := opts.MaterialSuffix

	secs, err := formats.ParseSections(text)
	if err != nil {
		return nil, err
	}
	dump.Dump("sec", map[string]interface{}{"sections": secs.All()})

	if err := formats.Validate(secs); err != nil {
		return nil, err
	}

	names := formats.ParseNames(secs.Lines(formats.SectionNames), realNames)

	tex, err := formats.ParseTextures(secs.Lines(formats.SectionTextures))
	if err != nil {
		return nil, err
	}
	texLines := make([]string, len(tex.Coords))
	for i, c := range tex.Coords {
		texLines[i] = "vt " + formats.FormatVec2(c)
	}
	dump.Dump("tex", map[string]interface{}{
		"tex_refs": map[string]interface{}{
			"named":    tex.ByIdentity(),
			"numbered": tex.Links,
		},
		"tex_lines_out": texLines,
	})

	identities := tex.Identities()
	aliases, keyList := texture.Resolve(names, identities, secs.Has(formats.SectionNames))
	keys := make(map[string]texture.Key, len(identities))
	for i, id := range identities {
		keys[id] = keyList[i]
	}
	dump.Dump("txm", map[string]interface{}{"tex_map": aliases.Entries()})

	vertices := formats.ParseVertices(secs.Lines(formats.SectionVertex))
	dump.Dump("ver", map[string]interface{}{
		"n_verts":          len(vertices),
		"vertex_lines_out": formatVec3Lines("v", vertices),
	})

	normals := formats.ParseNormals(secs.Lines(formats.SectionNormals))
	dump.Dump("nor", map[string]interface{}{
		"n_normals":         len(normals),
		"normals_lines_out": formatVec3Lines("vn", normals),
	})

	faces, err := formats.ParseFaces(secs.Lines(formats.SectionFaces), tex, len(normals) > 0)
	if err != nil {
		return nil, err
	}

	groups := Assemble(objName, faces, keys, aliases, suffix)
	groupDump := make(map[string][]string, len(groups))
	for _, g := range groups {
		lines := make([]string, len(g.Faces))
		for i, f := range g.Faces {
			lines[i] = wavefront.FormatFace(f)
		}
		groupDump[g.Name] = lines
	}
	dump.Dump("fac", map[string]interface{}{"n_faces": len(faces), "faces_groups": groupDump})

	mesh := &Mesh{
		Object: &wavefront.Object{
			Name:        objName,
			MaterialLib: mtlLib,
			Vertices:    vertices,
			TexCoords:   tex.Coords,
			Normals:     normals,
			Groups:      groups,
		},
		Materials: Materials(aliases, suffix),
		Aliases:   aliases,
	}
	for _, f := range faces {
		for _, vid := range f.VertexIDs {
			if vid >= len(vertices) {
				mesh.DanglingRefs++
			}
		}
	}
	return mesh, nil
}

// OutputPaths derives the OBJ and MTL paths for an input file. Only the file
// name is lower-cased; the directory is kept as given.
func OutputPaths(input string, lowercase bool) (objPath, mtlPath string) {
	dir, base := filepath.Split(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if lowercase {
		base = strings.ToLower(base)
	}
	return filepath.Join(dir, base+".obj"), filepath.Join(dir, base+".mtl")
}

// IndexPath returns the texture index file path for an input file.
func IndexPath(input, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + ext
}

// ConvertFile converts one .dat file and writes the OBJ and MTL next to it.
// Both outputs are rendered in memory first, so a failed conversion never
// leaves output files behind.
func ConvertFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	log := logger.Named("convert").With(zap.String("file", path))
	log.Info("reading mesh")

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading DAT file: %w", err)
	}
	text, err := encoding.Decode(encoding.TrimNullBytes(raw), opts.Charset)
	if err != nil {
		return nil, err
	}

	realNames, err := readIndex(IndexPath(path, opts.IndexExt), opts.Charset)
	if err != nil {
		return nil, err
	}
	if len(realNames) > 0 {
		log.Debug("loaded texture index", zap.Int("names", len(realNames)))
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	objPath, mtlPath := OutputPaths(path, opts.LowercaseOutput)

	var dump Dumper = nopDumper{}
	if opts.Debug {
		dump = &fileDumper{dir: filepath.Dir(path), base: base, log: log}
	}

	mesh, err := Convert(base, filepath.Base(mtlPath), text, realNames, opts, dump)
	if err != nil {
		return nil, err
	}
	if mesh.DanglingRefs > 0 {
		log.Warn("faces reference missing vertices", zap.Int("refs", mesh.DanglingRefs))
	}

	var objBuf, mtlBuf bytes.Buffer
	if err := wavefront.WriteOBJ(&objBuf, mesh.Object); err != nil {
		return nil, fmt.Errorf("rendering OBJ: %w", err)
	}
	if err := wavefront.WriteMTL(&mtlBuf, mesh.Materials); err != nil {
		return nil, fmt.Errorf("rendering MTL: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeFileAtomic(objPath, objBuf.Bytes()); err != nil {
		return nil, err
	}
	log.Info("saved", zap.String("path", objPath))
	if err := writeFileAtomic(mtlPath, mtlBuf.Bytes()); err != nil {
		return nil, err
	}
	log.Info("saved", zap.String("path", mtlPath))

	return &Result{
		Input:     path,
		OBJPath:   objPath,
		MTLPath:   mtlPath,
		Vertices:  len(mesh.Object.Vertices),
		Faces:     mesh.Object.FaceCount(),
		Normals:   len(mesh.Object.Normals),
		TexCoords: len(mesh.Object.TexCoords),
		Groups:    len(mesh.Object.Groups),
		Materials: len(mesh.Materials),
		Bounds:    mesh.Bounds(),
		Duration:  time.Since(start),
	}, nil
}

func readIndex(path, charset string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading texture index: %w", err)
	}
	text, err := encoding.Decode(raw, charset)
	if err != nil {
		return nil, fmt.Errorf("texture index %s: %w", path, err)
	}
	return formats.ParseOTI(text), nil
}

// writeFileAtomic writes data to a temporary file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dat2obj-*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func formatVec3Lines(prefix string, vs []mgl64.Vec3) []string {
	lines := make([]string, len(vs))
	for i, v := range vs {
		lines[i] = prefix + " " + formats.FormatVec3(v)
	}
	return lines
}

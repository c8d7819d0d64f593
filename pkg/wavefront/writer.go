package wavefront

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteOBJ serializes obj. Indices are written 1-based.
func WriteOBJ(w io.Writer, obj *Object) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, Header)
	fmt.Fprintf(bw, "mtllib %s\n", obj.MaterialLib)
	fmt.Fprintf(bw, "o %s\n", obj.Name)
	fmt.Fprintf(bw, "# %d vertices, %d faces, %d normals\n", len(obj.Vertices), obj.FaceCount(), len(obj.Normals))

	if len(obj.Vertices) > 0 {
		bw.WriteString("\n")
		for _, v := range obj.Vertices {
			fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v[0], v[1], v[2])
		}
	}

	if len(obj.TexCoords) > 0 {
		bw.WriteString("\n")
		for _, vt := range obj.TexCoords {
			fmt.Fprintf(bw, "vt %.6f %.6f\n", vt[0], vt[1])
		}
	}

	if len(obj.Normals) > 0 {
		bw.WriteString("\n")
		for _, vn := range obj.Normals {
			fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", vn[0], vn[1], vn[2])
		}
	}

	for _, g := range obj.Groups {
		bw.WriteString("\n")
		fmt.Fprintf(bw, "g %s\n", g.Name)
		fmt.Fprintf(bw, "usemtl %s\n", g.Material)
		for _, f := range g.Faces {
			bw.WriteString(FormatFace(f))
			bw.WriteString("\n")
		}
	}

	return bw.Flush()
}

// FormatFace renders an "f" statement. Each point is followed by a space and
// uses the v/vt/vn form, with an empty slot for missing references.
func FormatFace(f Face) string {
	var sb strings.Builder
	sb.WriteString("f ")
	for _, p := range f.Points {
		sb.WriteString(strconv.Itoa(p.Vertex + 1))
		sb.WriteByte('/')
		if p.TexCoord != NoIndex {
			sb.WriteString(strconv.Itoa(p.TexCoord + 1))
		}
		sb.WriteByte('/')
		if p.Normal != NoIndex {
			sb.WriteString(strconv.Itoa(p.Normal + 1))
		}
		sb.WriteByte(' ')
	}
	return sb.String()
}

// WriteMTL serializes materials. An empty list still produces one default
// material without a texture.
func WriteMTL(w io.Writer, materials []Material) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, Header)
	fmt.Fprintf(bw, "# Material number %d\n", len(materials))

	if len(materials) == 0 {
		materials = []Material{{Name: DefaultMaterialName, Texture: "."}}
	}

	for _, m := range materials {
		texture := m.Texture
		if texture == "" {
			texture = "."
		}
		fmt.Fprintf(bw, "\nnewmtl %s\n", m.Name)
		bw.WriteString("Ns 100.000\n")
		bw.WriteString("d 1.00000\n")
		bw.WriteString("illum 2\n")
		bw.WriteString("Kd 1.00000 1.00000 1.00000\n")
		bw.WriteString("Ka 1.00000 1.00000 1.00000\n")
		bw.WriteString("Ks 1.00000 1.00000 1.00000\n")
		bw.WriteString("Ke 0.00000e+0 0.00000e+0 0.00000e+0\n")
		fmt.Fprintf(bw, "map_Kd %s\n", texture)
	}

	return bw.Flush()
}

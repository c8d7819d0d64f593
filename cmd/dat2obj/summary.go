package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/olekukonko/tablewriter"

	"github.com/Faultbox/dat2obj/internal/convert"
	"github.com/Faultbox/dat2obj/pkg/wavefront"
)

// conversionTable renders one row per input. results is aligned with paths;
// nil marks a failed file. Every footer cell is filled: tablewriter drops the
// column separator around empty footer cells, which shifts the totals.
func conversionTable(paths []string, results []*convert.Result) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Input", "Output", "Vertices", "Faces", "UVs", "Normals", "Materials", "Size", "Time"})

	var ok, vertices, faces, uvs, normals, materials int
	var elapsed time.Duration
	for i, path := range paths {
		res := results[i]
		if res == nil {
			table.Append([]string{path, "FAILED", "", "", "", "", "", "", ""})
			continue
		}
		ok++
		vertices += res.Vertices
		faces += res.Faces
		uvs += res.TexCoords
		normals += res.Normals
		materials += res.Materials
		elapsed += res.Duration
		table.Append([]string{
			path,
			filepath.Base(res.OBJPath),
			strconv.Itoa(res.Vertices),
			strconv.Itoa(res.Faces),
			strconv.Itoa(res.TexCoords),
			strconv.Itoa(res.Normals),
			strconv.Itoa(res.Materials),
			fmtVec(res.Bounds.Size()),
			res.Duration.Round(time.Millisecond).String(),
		})
	}
	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d/%d", ok, len(paths)),
		strconv.Itoa(vertices),
		strconv.Itoa(faces),
		strconv.Itoa(uvs),
		strconv.Itoa(normals),
		strconv.Itoa(materials),
		"-",
		elapsed.Round(time.Millisecond).String(),
	})

	table.Render()
	return buf.String()
}

// objectTable summarizes a parsed OBJ file and its materials.
func objectTable(obj *wavefront.Object, mats []wavefront.Material) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Item", "Value"})
	table.Append([]string{"Object", obj.Name})
	table.Append([]string{"Material library", obj.MaterialLib})
	table.Append([]string{"Vertices", strconv.Itoa(len(obj.Vertices))})
	table.Append([]string{"UVs", strconv.Itoa(len(obj.TexCoords))})
	table.Append([]string{"Normals", strconv.Itoa(len(obj.Normals))})
	table.Append([]string{"Groups", strconv.Itoa(len(obj.Groups))})
	table.Append([]string{"Faces", strconv.Itoa(obj.FaceCount())})
	table.Append([]string{"Missing normal refs", strconv.Itoa(obj.DanglingNormals)})
	table.Render()

	if len(obj.Groups) > 0 {
		buf.WriteString("\n")
		groups := tablewriter.NewWriter(&buf)
		groups.SetAutoFormatHeaders(false)
		groups.SetHeader([]string{"Group", "Material", "Faces", "Texture"})
		textures := make(map[string]string, len(mats))
		for _, m := range mats {
			textures[m.Name] = m.Texture
		}
		for _, g := range obj.Groups {
			tex, ok := textures[g.Material]
			if !ok {
				tex = "(missing)"
			}
			groups.Append([]string{g.Name, g.Material, strconv.Itoa(len(g.Faces)), tex})
		}
		groups.Render()
	}

	return buf.String()
}

func fmtVec(v mgl64.Vec3) string {
	return fmt.Sprintf("%.2f x %.2f x %.2f", v[0], v[1], v[2])
}

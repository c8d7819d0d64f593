package convert

import (
	"github.com/Faultbox/dat2obj/pkg/formats"
	"github.com/Faultbox/dat2obj/pkg/texture"
	"github.com/Faultbox/dat2obj/pkg/wavefront"
)

// Assemble groups faces by resolved texture key. Groups are ordered by the
// first face using each key and faces keep their parse order. Group names are
// "<object>_<material>". Indices stay 0-based here.
func Assemble(objName string, faces []formats.Face, keys map[string]texture.Key, aliases *texture.Map, suffix string) []wavefront.Group {
	var groups []wavefront.Group
	groupIdx := make(map[texture.Key]int)

	for _, f := range faces {
		key, ok := keys[f.Identity]
		if !ok {
			key = texture.NameKey(f.Identity)
		}

		gi, ok := groupIdx[key]
		if !ok {
			material := aliases.MaterialName(key, suffix)
			groups = append(groups, wavefront.Group{
				Name:     objName + "_" + material,
				Material: material,
			})
			gi = len(groups) - 1
			groupIdx[key] = gi
		}

		face := wavefront.Face{Points: make([]wavefront.Point, len(f.VertexIDs))}
		for i, vid := range f.VertexIDs {
			normal := wavefront.NoIndex
			if f.HasNormal() {
				normal = f.NormalID
			}
			face.Points[i] = wavefront.Point{
				Vertex:   vid,
				TexCoord: f.TexCoordIDs[i],
				Normal:   normal,
			}
		}
		groups[gi].Faces = append(groups[gi].Faces, face)
	}

	return groups
}

// Materials lists one MTL entry per alias, index keys first.
func Materials(aliases *texture.Map, suffix string) []wavefront.Material {
	entries := aliases.Sorted()
	mats := make([]wavefront.Material, 0, len(entries))
	for _, a := range entries {
		mats = append(mats, wavefront.Material{
			Name:    aliases.MaterialName(a.Key, suffix),
			Texture: a.RealName,
		})
	}
	return mats
}

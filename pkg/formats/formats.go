// Package formats provides parsers for Oolite mesh files and their companions.
//
// DAT meshes are line-oriented text split into named sections (NVERTS,
// VERTEX, FACES, TEXTURES, NORMALS, NAMES, END). OTI files list the texture
// file name for each NAMES index.
package formats

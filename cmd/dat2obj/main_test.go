package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli"

	"github.com/Faultbox/dat2obj/internal/convert"
)

const shipDAT = "NVERTS 3\nNFACES 2\n" +
	"VERTEX\n0, 0, 0\n1, 0, 0\n0, 1, 0\n" +
	"FACES\n0,0,0,\t0,0,1,\t3,\t0,1,2\n0,0,0,\t0,0,1,\t3,\t0,2,1\n" +
	"TEXTURES\n" +
	"hull.png\t1.0 1.0\t0.0 0.0\t1.0 0.0\t0.0 1.0\n" +
	"hull.png\t1.0 1.0\t0.0 0.0\t0.0 1.0\t1.0 0.0\n" +
	"NORMALS\n0, 0, 1\n" +
	"END\n"

// runApp runs the CLI with args and returns stdout and the exit code passed
// to cli.OsExiter (0 if it was not called).
func runApp(t *testing.T, args ...string) (string, int, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	code := 0
	cli.OsExiter = func(c int) { code = c }
	cli.ErrWriter = io.Discard
	t.Cleanup(func() {
		cli.OsExiter = os.Exit
		cli.ErrWriter = os.Stderr
	})

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"dat2obj"}, args...))
	return out.String(), code, err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestConvertCommand(t *testing.T) {
	tests := []struct {
		name string
		args func(path string) []string
	}{
		{"convert command", func(p string) []string { return []string{"convert", p} }},
		{"default action", func(p string) []string { return []string{p} }},
		{"verbose default action", func(p string) []string { return []string{"-v", p} }},
		{"flags before command", func(p string) []string { return []string{"--suffix", "_x", "convert", p} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "Ship.dat", shipDAT)

			out, code, err := runApp(t, tt.args(path)...)
			if err != nil || code != 0 {
				t.Fatalf("run failed: err=%v code=%d", err, code)
			}
			if !strings.Contains(out, "ship.obj") {
				t.Errorf("summary does not list the output:\n%s", out)
			}
			for _, name := range []string{"ship.obj", "ship.mtl"} {
				if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
					t.Errorf("missing output %s", name)
				}
			}
		})
	}
}

func TestConvertCommandSuffixFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Ship.dat", shipDAT)

	if _, _, err := runApp(t, "--suffix", "_x", "convert", path); err != nil {
		t.Fatal(err)
	}
	mtl, err := os.ReadFile(filepath.Join(dir, "ship.mtl"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(mtl), "newmtl hull_x\n") {
		t.Errorf("suffix flag ignored:\n%s", mtl)
	}
}

func TestConvertCommandPartialFailure(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "Bad.dat", strings.Replace(shipDAT, "NVERTS 3", "NVERTS 5", 1))
	good := writeFile(t, dir, "Ship.dat", shipDAT)

	out, code, err := runApp(t, "convert", bad, good)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Errorf("error = %v", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out, "FAILED") {
		t.Errorf("summary does not mark the failure:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "ship.obj")); err != nil {
		t.Error("good file was not converted")
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.obj")); !os.IsNotExist(err) {
		t.Error("failed file produced output")
	}
}

func TestVersionFlag(t *testing.T) {
	out, _, err := runApp(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("version output = %q", out)
	}
}

func TestInspectConvertedMesh(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Ship.dat", shipDAT)
	if _, _, err := runApp(t, "convert", path); err != nil {
		t.Fatal(err)
	}

	// Two faces, one normal: face 1 references vn 2.
	out, _, err := runApp(t, "inspect", filepath.Join(dir, "ship.obj"))
	if err != nil {
		t.Fatalf("inspect failed on converted output: %v", err)
	}
	if got := tableRow(out, "Missing normal refs"); !reflect.DeepEqual(got, []string{"Missing normal refs", "3"}) {
		t.Errorf("missing normal row = %q\n%s", got, out)
	}
	if got := tableRow(out, "Ship_hull_auv"); !reflect.DeepEqual(got, []string{"Ship_hull_auv", "hull_auv", "2", "hull.png"}) {
		t.Errorf("group row = %q\n%s", got, out)
	}
}

func TestInspectRejectsOtherFiles(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ship.dat", shipDAT)
	if _, _, err := runApp(t, "inspect", path); err == nil {
		t.Error("expected error for a non-OBJ file")
	}
}

func TestConfigCommand(t *testing.T) {
	out, _, err := runApp(t, "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "material_suffix: _auv") {
		t.Errorf("config output:\n%s", out)
	}
}

func TestConversionTableFooter(t *testing.T) {
	paths := []string{"a.dat", "b.dat", "c.dat"}
	results := []*convert.Result{
		{OBJPath: "a.obj", Vertices: 4, Faces: 2, TexCoords: 3, Normals: 2, Materials: 1, Duration: 2 * time.Millisecond},
		nil,
		{OBJPath: "c.obj", Vertices: 6, Faces: 4, TexCoords: 5, Normals: 0, Materials: 2, Duration: 3 * time.Millisecond},
	}

	out := conversionTable(paths, results)

	want := []string{"Total", "2/3", "10", "6", "8", "2", "3", "-", "5ms"}
	if got := tableRow(out, "Total"); !reflect.DeepEqual(got, want) {
		t.Errorf("footer = %q, want %q\n%s", got, want, out)
	}
}

// tableRow returns the trimmed, non-empty cells of the first rendered table
// line whose first cell is first.
func tableRow(out, first string) []string {
	for _, line := range strings.Split(out, "\n") {
		var cells []string
		for _, cell := range strings.Split(line, "|") {
			if cell = strings.TrimSpace(cell); cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) > 0 && cells[0] == first {
			return cells
		}
	}
	return nil
}

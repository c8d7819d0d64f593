package convert

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Dumper receives intermediate conversion data. ext names the stage: sec,
// tex, txm, ver, nor, fac.
type Dumper interface {
	Dump(ext string, data interface{})
}

type nopDumper struct{}

func (nopDumper) Dump(string, interface{}) {}

// fileDumper writes each stage to <dir>/<base>.<ext> as YAML.
type fileDumper struct {
	dir  string
	base string
	log  *zap.Logger
}

func (d *fileDumper) Dump(ext string, data interface{}) {
	path := filepath.Join(d.dir, d.base+"."+ext)

	var buf bytes.Buffer
	if err := encodeDump(&buf, d.base, data); err != nil {
		d.log.Warn("encoding dump failed", zap.String("dump", ext), zap.Error(err))
		return
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		d.log.Warn("writing dump failed", zap.String("path", path), zap.Error(err))
		return
	}
	d.log.Debug("wrote dump", zap.String("path", path))
}

// encodeDump writes the dump header and data as one YAML document.
func encodeDump(w io.Writer, base string, data interface{}) error {
	if _, err := fmt.Fprintf(w, "# Dump file for %s\n", base); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

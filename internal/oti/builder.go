// Package oti builds texture index files from an Oolite shipdata plist.
package oti

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"go.uber.org/zap"
	"howett.net/plist"

	"github.com/Faultbox/dat2obj/internal/logger"
	"github.com/Faultbox/dat2obj/pkg/encoding"
	"github.com/Faultbox/dat2obj/pkg/formats"
)

// ErrNoShips is returned when a plist holds no ship entries.
var ErrNoShips = errors.New("no ship entries in plist")

// Line comments are not OpenStep; "://" inside URLs is left alone.
var lineCommentRe = regexp.MustCompile(`(?m)(^|[^:])//.*$`)

// Ship is one entry of a shipdata plist.
type Ship struct {
	Name      string
	Model     string
	Materials map[string]string // alias -> diffuse map
}

// ShipData is a parsed shipdata plist.
type ShipData struct {
	Ships map[string]Ship
	// model file name -> ship entry name
	Models map[string]string
}

// ParseShipData parses OpenStep plist text.
func ParseShipData(data []byte) (*ShipData, error) {
	data = lineCommentRe.ReplaceAll(data, []byte("$1"))

	var raw map[string]interface{}
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing plist: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoShips
	}

	sd := &ShipData{
		Ships:  make(map[string]Ship, len(raw)),
		Models: make(map[string]string),
	}
	for name, v := range raw {
		entry, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		ship := Ship{Name: name, Materials: make(map[string]string)}
		if model, ok := entry["model"].(string); ok {
			ship.Model = model
			sd.Models[model] = name
		}
		if mats, ok := entry["materials"].(map[string]interface{}); ok {
			for alias, m := range mats {
				mat, ok := m.(map[string]interface{})
				if !ok {
					continue
				}
				if diffuse, ok := mat["diffuse_map"].(string); ok {
					ship.Materials[alias] = diffuse
				}
			}
		}
		sd.Ships[name] = ship
	}
	return sd, nil
}

// LoadShipData reads and parses a shipdata plist file.
func LoadShipData(path string) (*ShipData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plist: %w", err)
	}
	return ParseShipData(data)
}

// TextureNames maps each alias to the ship's diffuse map, falling back to the
// alias itself.
func (s Ship) TextureNames(aliases []string) []string {
	names := make([]string, len(aliases))
	for i, alias := range aliases {
		if diffuse, ok := s.Materials[alias]; ok {
			names[i] = diffuse
		} else {
			names[i] = alias
		}
	}
	return names
}

// CollectAliases reads the NAMES section of every .dat file in dir. Files
// without a NAMES section are left out of aliases.
func CollectAliases(dir, charset string, aliases map[string][]string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.dat"))
	if err != nil {
		return err
	}
	log := logger.Named("oti")
	for _, path := range paths {
		log.Info("finding texture aliases", zap.String("file", path))
		secs, err := formats.ParseDATFile(path, charset)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if names := secs.Lines(formats.SectionNames); len(names) > 0 {
			aliases[filepath.Base(path)] = names
		}
	}
	return nil
}

// Build writes one .oti file to outDir for every .dat file in datDir that has
// a NAMES section and a ship entry in the plist. Meshes are read and indexes
// written in charset. It returns the written paths in name order.
func Build(plistPath, datDir, outDir, charset string) ([]string, error) {
	if outDir == "" {
		outDir = datDir
	}

	sd, err := LoadShipData(plistPath)
	if err != nil {
		return nil, err
	}

	aliases := make(map[string][]string)
	if err := CollectAliases(datDir, charset, aliases); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(aliases))
	for name := range aliases {
		files = append(files, name)
	}
	sort.Strings(files)

	log := logger.Named("oti")
	var written []string
	for _, name := range files {
		shipName, ok := sd.Models[name]
		if !ok {
			log.Debug("no ship entry for model", zap.String("file", name))
			continue
		}

		var buf bytes.Buffer
		if err := formats.WriteOTI(&buf, sd.Ships[shipName].TextureNames(aliases[name])); err != nil {
			return written, err
		}

		base := name[:len(name)-len(filepath.Ext(name))]
		path := filepath.Join(outDir, base+".oti")
		data, err := encoding.Encode(buf.String(), charset)
		if err != nil {
			return written, fmt.Errorf("%s: %w", name, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		log.Info("wrote index", zap.String("file", path), zap.String("ship", shipName))
		written = append(written, path)
	}
	return written, nil
}

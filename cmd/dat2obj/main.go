// dat2obj converts Oolite .dat meshes to Wavefront OBJ/MTL files.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

const version = "1.0.0"

var convertFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "debug, d",
		Usage: "write intermediate dump files next to each input",
	},
	cli.IntFlag{
		Name:  "workers, j",
		Usage: "number of files converted concurrently (default: number of CPUs)",
	},
	cli.StringFlag{
		Name:  "suffix",
		Usage: "suffix appended to material names (default: _auv)",
	},
	cli.StringFlag{
		Name:  "charset",
		Usage: "input text encoding: utf-8, latin1, windows-1252, euc-kr",
	},
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// -v is the verbose flag; keep only the long form for the version.
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "dat2obj"
	app.Usage = "convert Oolite .dat meshes to Wavefront OBJ/MTL"
	app.Version = version
	app.ArgsUsage = "file.dat ..."
	app.Flags = append([]cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from `FILE`",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also write logs to `FILE` (rotated)",
		},
	}, convertFlags...)
	app.Action = cmdDefault
	app.Commands = []cli.Command{
		{
			Name:  "convert",
			Usage: "convert .dat files to OBJ/MTL",
			Description: `
Each input produces <name>.obj and <name>.mtl in the input's directory. Texture
names for indexed meshes are read from <name>.oti when present.

Files are converted concurrently; a failing file does not stop the others.`,
			ArgsUsage: "file1.dat file2.dat ...",
			Flags:     convertFlags,
			Action:    cmdConvert,
		},
		{
			Name:  "build-oti",
			Usage: "build .oti texture index files from a shipdata plist",
			Description: `
Scans dat_dir for .dat files with a NAMES section and writes one .oti file per
mesh that has a ship entry in the plist.`,
			ArgsUsage: "shipdata.plist dat_dir [out_dir]",
			Action:    cmdBuildOTI,
		},
		{
			Name:      "inspect",
			Usage:     "show statistics for an OBJ file and its material library",
			ArgsUsage: "file.obj",
			Action:    cmdInspect,
		},
		{
			Name:      "config",
			Usage:     "print the effective configuration, or save it to a file",
			ArgsUsage: "[path]",
			Action:    cmdConfig,
		},
	}
	return app
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/dat2obj/internal/config"
	"github.com/Faultbox/dat2obj/internal/convert"
	"github.com/Faultbox/dat2obj/internal/logger"
	"github.com/Faultbox/dat2obj/internal/oti"
	"github.com/Faultbox/dat2obj/pkg/wavefront"
)

// setup loads the configuration and initializes logging.
func setup(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString("config"), config.Overrides{
		Debug:   ctx.Bool("debug") || ctx.GlobalBool("debug"),
		Verbose: ctx.GlobalBool("v"),
		Workers: firstInt(ctx.Int("workers"), ctx.GlobalInt("workers")),
		Suffix:  firstString(ctx.String("suffix"), ctx.GlobalString("suffix")),
		Charset: firstString(ctx.String("charset"), ctx.GlobalString("charset")),
		LogFile: ctx.GlobalString("log-file"),
	})
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Convert flags may be given before or after the command name.
func firstString(local, global string) string {
	if local != "" {
		return local
	}
	return global
}

func firstInt(local, global int) int {
	if local != 0 {
		return local
	}
	return global
}

func cmdDefault(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.ShowAppHelp(ctx)
	}
	return cmdConvert(ctx)
}

func cmdConvert(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("no input file given")
	}

	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	bg, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	paths := []string(ctx.Args())
	results, err := convert.Batch(bg, paths, convert.OptionsFromConfig(cfg.Convert), cfg.Convert.Workers)

	fmt.Fprint(ctx.App.Writer, conversionTable(paths, results))

	if err != nil {
		failed := multierr.Errors(err)
		for _, e := range failed {
			logger.Error("conversion failed", zap.Error(e))
		}
		return cli.NewExitError(fmt.Sprintf("%d of %d files failed", len(failed), len(paths)), 1)
	}
	return nil
}

func cmdBuildOTI(ctx *cli.Context) error {
	if ctx.NArg() < 2 || ctx.NArg() > 3 {
		return errors.New("expected <shipdata.plist> <dat_dir> [out_dir]")
	}

	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	args := ctx.Args()
	written, err := oti.Build(args.Get(0), args.Get(1), args.Get(2), cfg.Convert.Charset)
	for _, path := range written {
		fmt.Fprintln(ctx.App.Writer, path)
	}
	return err
}

func cmdInspect(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("missing OBJ file")
	}
	if _, err := setup(ctx); err != nil {
		return err
	}
	defer logger.Sync()

	objPath := ctx.Args().First()
	if !strings.EqualFold(filepath.Ext(objPath), ".obj") {
		return errors.New("only .obj files are supported")
	}

	obj, err := wavefront.ReadOBJFile(objPath)
	if err != nil {
		return err
	}

	if obj.DanglingNormals > 0 {
		logger.Warn("faces reference missing normals", zap.String("path", objPath), zap.Int("refs", obj.DanglingNormals))
	}

	var mats []wavefront.Material
	if obj.MaterialLib != "" {
		mtlPath := filepath.Join(filepath.Dir(objPath), obj.MaterialLib)
		mats, err = wavefront.ReadMTLFile(mtlPath)
		if err != nil {
			logger.Warn("could not read material library", zap.String("path", mtlPath), zap.Error(err))
		}
	}

	fmt.Fprint(ctx.App.Writer, objectTable(obj, mats))
	return nil
}

func cmdConfig(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if path := ctx.Args().First(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return err
		}
		logger.Info("saved configuration", zap.String("path", path))
		return nil
	}
	return cfg.Write(ctx.App.Writer)
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/woozymasta/geotweak/internal/config"
	"github.com/woozymasta/geotweak/internal/export"
	"github.com/woozymasta/geotweak/internal/logger"
	"github.com/woozymasta/geotweak/internal/processor"
	"github.com/woozymasta/geotweak/internal/transform"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input      string `short:"i" long:"in"       description:"Input file path (.json or .kml)" required:"true"`
	Output     string `short:"o" long:"out"      description:"Output file path. Writes to stdout if empty"`
	OutDir     string `short:"d" long:"out-dir"  description:"Write the GeoJSON view into this directory under its export name"`
	ConfigFile string `short:"c" long:"config"   env:"CONFIG_FILE" description:"Path to configuration file, built-in defaults if empty"`
	Format     string `short:"f" long:"format"   description:"Output format" choice:"json" choice:"yaml" default:"json"`
	View       string `short:"v" long:"view"     description:"View to print" choice:"geojson" choice:"table" choice:"summary" default:"geojson"`
	Sort       string `short:"s" long:"sort"     description:"Property to sort features by"`
	Desc       bool   `long:"desc"               description:"Sort in descending order"`
	Polygons   bool   `short:"P" long:"polygons" description:"Convert LineStrings to closed Polygons"`
	Indent     string `long:"indent"             description:"Indent of JSON output, overrides the configuration"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Indent != "" {
		cfg.Export.Indent = opts.Indent
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid export timezone")
	}

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		log.Fatal().Err(err).Str("file", opts.Input).Msg("Failed to read input")
	}

	pipeline := &processor.Pipeline{
		Exporter: &export.Exporter{Location: loc, Indent: cfg.Export.Indent},
		Loader:   cfg.KML,
		Preview:  cfg.Preview,
	}

	ctx := log.Logger.WithContext(context.Background())
	res, err := pipeline.Run(ctx, data, filepath.Base(opts.Input), transformOptions(cfg.Defaults, opts))
	if err != nil {
		log.Fatal().Err(err).Str("file", opts.Input).Msg("Failed to process input")
	}

	out, name, err := render(res, opts.View, opts.Format, cfg.Export.Indent)
	if err != nil {
		log.Fatal().Err(err).Str("view", opts.View).Msg("Failed to render view")
	}

	path := opts.Output
	if path == "" && opts.OutDir != "" && name != "" {
		path = filepath.Join(opts.OutDir, name)
	}

	if path == "" {
		fmt.Println(string(out))
		return
	}

	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write output")
	}

	log.Info().
		Str("input", opts.Input).
		Str("output", path).
		Str("view", opts.View).
		Str("format", opts.Format).
		Int("features", len(res.Collection.Features)).
		Msg("Conversion completed")
}

// transformOptions lays the command line flags over the configured defaults.
func transformOptions(defaults transform.Options, opts Options) transform.Options {
	t := defaults
	if opts.Sort != "" {
		t.SortProperty = opts.Sort
	}
	if opts.Desc {
		t.SortDescending = true
	}
	if opts.Polygons {
		t.ConvertLineStrings = true
	}
	return t
}

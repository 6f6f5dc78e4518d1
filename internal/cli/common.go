package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/pgxm/internal/config"
	"github.com/vvka-141/pgxm/internal/generate"
	"github.com/vvka-141/pgxm/internal/logging"
	"github.com/vvka-141/pgxm/internal/pipeline"
)

// projectContext bundles everything a command needs about the project it
// operates on.
type projectContext struct {
	SourcePath   string
	ManifestPath string
	OutputDir    string
	Config       *config.ProjectConfig
	Options      pipeline.Options
}

// sourcePathFromArgs returns the optional project path argument, defaulting
// to the current directory.
func sourcePathFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// loadProject loads .env, the project config, and assembles pipeline
// options. Flag overrides for the manifest and output locations win over
// pgxm.yaml.
func loadProject(cmd *cobra.Command, args []string, manifestOverride, outputOverride string) (*projectContext, error) {
	_ = godotenv.Load()

	sourcePath := sourcePathFromArgs(args)

	cfg, err := config.LoadOrDefault(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}

	rules, err := cfg.ConstraintRules()
	if err != nil {
		return nil, err
	}

	params := generate.DefaultParams()
	params.ToolVersion = version
	if cfg.DistroVersion != "" {
		params.DistroVersion = cfg.DistroVersion
	}
	if len(cfg.CategoryOrder) > 0 {
		params.CategoryOrder = cfg.CategoryOrder
	}

	verbose := getVerboseFlag(cmd)
	pc := &projectContext{
		SourcePath:   sourcePath,
		ManifestPath: cfg.ManifestPath(sourcePath),
		OutputDir:    cfg.OutputDir(sourcePath),
		Config:       cfg,
		Options: pipeline.Options{
			Params:      params,
			Constraints: rules,
			Logger:      logging.NewConsoleLogger(verbose),
		},
	}
	if manifestOverride != "" {
		pc.ManifestPath = manifestOverride
	}
	if outputOverride != "" {
		pc.OutputDir = outputOverride
	}

	if verbose {
		pc.Options.Logger.Verbose("manifest: %s", pc.ManifestPath)
		pc.Options.Logger.Verbose("output:   %s", pc.OutputDir)
		if cfg.Path() != "" {
			pc.Options.Logger.Verbose("config:   %s", cfg.Path())
		}
	}
	return pc, nil
}

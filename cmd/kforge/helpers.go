package main

import (
	"os"

	"github.com/kernelforge/kforge/internal/common/config"
	"github.com/kernelforge/kforge/internal/common/logger"
	"github.com/kernelforge/kforge/internal/pipeline"
	"github.com/kernelforge/kforge/internal/profile"
)

// loadPipeline loads the tool config and kernel profile and wires a pipeline.
// Profile resolution: --profile flag, then the config file's profile entry,
// then ./kforge.toml.
func loadPipeline() (*pipeline.Pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	path := profilePath
	if path == "" {
		path = cfg.Profile
	}

	var prof *profile.Profile
	if path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, err
		}
		prof, err = profile.Load(expanded)
		if err != nil {
			return nil, err
		}
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		prof, err = profile.LoadDefault(cwd)
		if err != nil {
			return nil, err
		}
	}

	return pipeline.New(cfg, prof)
}

// fail logs an error and exits non-zero
func fail(format string, args ...interface{}) {
	logger.Error(format, args...)
	os.Exit(1)
}

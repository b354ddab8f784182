package resdepth

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/andrew-torda/resdepth/surface"
)

// Config is what can go in a yaml file. Anything left out gets the
// surface package defaults.
type Config struct {
	Xyzr      string `yaml:"xyzr"`
	Msms      string `yaml:"msms"`
	TmpDir    string `yaml:"tmpdir"`
	Cleanup   string `yaml:"cleanup"`
	MinFreeMB uint64 `yaml:"minfreemb"`
	CacheDir  string `yaml:"cachedir"`
}

// ReadConfig reads a yaml config file. Unknown keys are an error, since
// they are probably typing mistakes.
func ReadConfig(fname string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(fname)
	if err != nil {
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", fname, err)
	}
	return cfg, nil
}

// merge lets command line flags override the file.
func (cfg *Config) merge(flags *CmdFlag) {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&cfg.Xyzr, flags.Xyzr)
	set(&cfg.Msms, flags.Msms)
	set(&cfg.Cleanup, flags.Cleanup)
	set(&cfg.CacheDir, flags.CacheDir)
}

// surfOpts turns a config into builder options.
func (cfg *Config) surfOpts() (surface.Options, error) {
	opts := surface.Options{
		XyzrExe:   cfg.Xyzr,
		MsmsExe:   cfg.Msms,
		TmpDir:    cfg.TmpDir,
		MinFreeMB: cfg.MinFreeMB,
	}
	if cfg.Cleanup != "" {
		var err error
		if opts.Cleanup, err = surface.ParseCleanup(cfg.Cleanup); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/javasem/classpath"
	"github.com/dhamidi/javasem/config"
)

// options are the global flags merged over javasem.toml.
type options struct {
	classpath  []string
	configPath string
	verbose    int
	jobs       int

	cfg   *config.Config
	path  *classpath.Path
	cache *classpath.Cache
}

func (o *options) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringSliceVarP(&o.classpath, "classpath", "c", nil, "classpath entries: directories, jars or globs (repeatable, or "+string(os.PathListSeparator)+"-separated)")
	flags.StringVar(&o.configPath, "config", config.FileName, "project configuration file")
	flags.CountVarP(&o.verbose, "verbose", "v", "increase log verbosity")
	flags.IntVarP(&o.jobs, "jobs", "j", 0, "files analysed in parallel (default: config or CPU count)")
}

// load reads the configuration and applies flag overrides.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("classpath") {
		cfg.Classpath = nil
		for _, c := range o.classpath {
			for _, e := range filepath.SplitList(c) {
				abs, err := filepath.Abs(e)
				if err != nil {
					return fmt.Errorf("classpath %s: %w", e, err)
				}
				cfg.Classpath = append(cfg.Classpath, abs)
			}
		}
	}
	if o.jobs > 0 {
		cfg.Jobs = o.jobs
	}
	if o.verbose > 0 {
		cfg.Verbosity = o.verbose
	}
	commonlog.Configure(cfg.Verbosity, nil)
	o.cfg = cfg
	return nil
}

// finder opens the classpath once per process behind a shared cache.
func (o *options) finder() (*classpath.Cache, error) {
	if o.cache != nil {
		return o.cache, nil
	}
	p, err := classpath.New(o.cfg.ClasspathPatterns()...)
	if err != nil {
		return nil, fmt.Errorf("open classpath: %w", err)
	}
	log.Infof("classpath: %s", p)
	o.path = p
	o.cache = classpath.NewCache(p)
	return o.cache, nil
}

func (o *options) close() error {
	if o.path == nil {
		return nil
	}
	return o.path.Close()
}

// sources returns args, or the configured source globs when args is empty.
func (o *options) sources(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := o.cfg.SourceFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no source files given and none match %v", o.cfg.Sources)
	}
	return files, nil
}

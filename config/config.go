// Package config reads javasem.toml project files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
)

const FileName = "javasem.toml"

// Config is the project configuration. Relative paths are resolved
// against Dir, the directory holding the file.
type Config struct {
	Dir       string   `toml:"-"`
	Classpath []string `toml:"classpath"`
	Sources   []string `toml:"sources"`
	Verbosity int      `toml:"verbosity"`
	Jobs      int      `toml:"jobs"`
}

func Default() *Config {
	return &Config{
		Dir:     ".",
		Sources: []string{"**/*.java"},
		Jobs:    runtime.NumCPU(),
	}
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.Dir = filepath.Dir(path)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.NumCPU()
	}
	return cfg, nil
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// ClasspathPatterns returns the classpath entries anchored at Dir.
func (c *Config) ClasspathPatterns() []string {
	out := make([]string, len(c.Classpath))
	for i, p := range c.Classpath {
		out[i] = c.resolve(p)
	}
	return out
}

// SourceFiles expands the source globs relative to Dir.
func (c *Config) SourceFiles() ([]string, error) {
	var files []string
	seen := map[string]bool{}
	fsys := os.DirFS(c.Dir)
	for _, pattern := range c.Sources {
		if filepath.IsAbs(pattern) {
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return nil, fmt.Errorf("sources %q: %w", pattern, err)
			}
			for _, m := range matches {
				if !seen[m] {
					seen[m] = true
					files = append(files, m)
				}
			}
			continue
		}
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern))
		if err != nil {
			return nil, fmt.Errorf("sources %q: %w", pattern, err)
		}
		for _, m := range matches {
			full := filepath.Join(c.Dir, filepath.FromSlash(m))
			if !seen[full] {
				seen[full] = true
				files = append(files, full)
			}
		}
	}
	return files, nil
}

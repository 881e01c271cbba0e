package scenario

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultProfile is the profile that reads only the default file.
const DefaultProfile = "default"

// Paths helper for default/profile files.
type Paths struct {
	BaseDir string // base directory, e.g., ./configs
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}
func (p Paths) ProfilePath(profile string) string {
	return filepath.Join(p.BaseDir, "profiles", profile+".yaml")
}

// Files lists the files that make up a profile, in merge order.
func (p Paths) Files(profile string) []string {
	if profile == "" || profile == DefaultProfile {
		return []string{p.DefaultPath()}
	}
	return []string{p.DefaultPath(), p.ProfilePath(profile)}
}

// Loader reads YAML scenario files and merges default → profile.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: profile name
}

// NewLoader creates a scenario loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// Paths returns the loader's path helper.
func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → profile. The default file is
// required; a missing profile file is an error unless profile is the default.
// It returns the merged RawConfig without defaults applied.
func (l *Loader) LoadMerged(profile string) (RawConfig, error) {
	if profile == "" {
		profile = DefaultProfile
	}
	l.mu.RLock()
	if cfg, ok := l.cache[profile]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged := defCfg
	if profile != DefaultProfile {
		profCfg, err := readYAML(l.paths.ProfilePath(profile))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read profile %q: %w", profile, err)
		}
		merged = mergeRaw(merged, profCfg)
	}

	l.mu.Lock()
	l.cache[profile] = merged
	l.mu.Unlock()

	return merged, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file into RawConfig.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// mergeRaw performs a deep merge: 'b' overrides 'a' where non-zero/non-nil.
// Rate, weight and character maps merge per key; slices in 'b' replace 'a'.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	out.Model.Rates = mergeMap(a.Model.Rates, b.Model.Rates)
	out.Model.Weights = mergeMap(a.Model.Weights, b.Model.Weights)
	out.Characters = mergeMap(a.Characters, b.Characters)

	// rarity
	switch {
	case out.Model.Rarity == nil && b.Model.Rarity != nil:
		c := *b.Model.Rarity
		out.Model.Rarity = &c
	case out.Model.Rarity != nil && b.Model.Rarity != nil:
		c := *out.Model.Rarity
		o := b.Model.Rarity
		pick(&c.SkillFactor, o.SkillFactor)
		pick(&c.CommonRate, o.CommonRate)
		pick(&c.MaxReduction, o.MaxReduction)
		pick(&c.Floor, o.Floor)
		pick(&c.UncommonRate, o.UncommonRate)
		pick(&c.RareRate, o.RareRate)
		pick(&c.EpicRate, o.EpicRate)
		pick(&c.LegendaryRate, o.LegendaryRate)
		out.Model.Rarity = &c
	}

	// targets
	switch {
	case out.Model.Targets == nil && b.Model.Targets != nil:
		c := *b.Model.Targets
		out.Model.Targets = &c
	case out.Model.Targets != nil && b.Model.Targets != nil:
		c := *out.Model.Targets
		o := b.Model.Targets
		pick(&c.TargetLevel, o.TargetLevel)
		pick(&c.TargetPercent, o.TargetPercent)
		pick(&c.CeilingLevel, o.CeilingLevel)
		pick(&c.CeilingPercent, o.CeilingPercent)
		out.Model.Targets = &c
	}

	if len(b.Levels) > 0 {
		out.Levels = append([]int(nil), b.Levels...)
	}
	if len(b.Formulas) > 0 {
		out.Formulas = append([]FormulaConfig(nil), b.Formulas...)
	}
	if len(b.Bonuses) > 0 {
		out.Bonuses = append([]BonusConfig(nil), b.Bonuses...)
	}
	if len(b.Stages) > 0 {
		out.Stages = append([]StageConfig(nil), b.Stages...)
	}

	return out
}

func pick[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

func mergeMap[V any](a, b map[string]V) map[string]V {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]V, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}

package rules

import (
	"fmt"
	"os"

	"github.com/kawaragi/meguri/internal/model"
	"gopkg.in/yaml.v3"
)

// ruleFile is the on-disk YAML shape for a rule library override
type ruleFile struct {
	Rules []model.Rule `yaml:"rules"`
}

// noiseFile is the on-disk YAML shape for a noise blocklist override
type noiseFile struct {
	Noise []model.NoiseEntry `yaml:"noise"`
}

// Load builds a library from optional YAML override files. An empty
// path keeps the corresponding built-in table. Load failures are fatal
// configuration errors: a bad library must never make it into a run.
func Load(rulesPath, noisePath string) (*Library, error) {
	ruleSpecs := builtinRules()
	noise := builtinNoise()

	if rulesPath != "" {
		data, err := os.ReadFile(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("read rules file: %w", err)
		}
		var rf ruleFile
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("parse rules file %s: %w", rulesPath, err)
		}
		if len(rf.Rules) == 0 {
			return nil, fmt.Errorf("rules file %s contains no rules", rulesPath)
		}
		ruleSpecs = rf.Rules
	}

	if noisePath != "" {
		data, err := os.ReadFile(noisePath)
		if err != nil {
			return nil, fmt.Errorf("read noise file: %w", err)
		}
		var nf noiseFile
		if err := yaml.Unmarshal(data, &nf); err != nil {
			return nil, fmt.Errorf("parse noise file %s: %w", noisePath, err)
		}
		noise = nf.Noise
	}

	lib, err := NewLibrary(ruleSpecs, noise)
	if err != nil {
		return nil, fmt.Errorf("compile rule library: %w", err)
	}
	return lib, nil
}

// Dump renders the library's rule specs as YAML, for `meguri rules show`
func Dump(lib *Library) ([]byte, error) {
	rf := ruleFile{}
	for _, r := range lib.Rules() {
		rf.Rules = append(rf.Rules, r.Rule)
	}
	return yaml.Marshal(rf)
}

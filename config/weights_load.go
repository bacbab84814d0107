package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides, e.g.
// CONTEXT_SEARCH_NEGATION_MISMATCH=-0.5.
const envPrefix = "CONTEXT_SEARCH"

// LoadContextWeights loads the ConText weight table from the given file
// (YAML or JSON, chosen by extension), layered over the built-in defaults
// and under CONTEXT_SEARCH_* environment overrides. An empty path loads
// defaults plus environment only.
//
// Validation happens here, at load time: scoring performs no runtime checks.
func LoadContextWeights(path string) (*ContextWeights, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	defaults := DefaultContextWeights()
	v.SetDefault("negation.match", defaults.Negation.Match)
	v.SetDefault("negation.mismatch", defaults.Negation.Mismatch)
	v.SetDefault("subject.match", defaults.Subject.Match)
	v.SetDefault("subject.mismatch", defaults.Subject.Mismatch)
	v.SetDefault("temporal.match.light", defaults.Temporal.Match.Light)
	v.SetDefault("temporal.match.heavy", defaults.Temporal.Match.Heavy)
	v.SetDefault("temporal.mismatch.light", defaults.Temporal.Mismatch.Light)
	v.SetDefault("temporal.mismatch.heavy", defaults.Temporal.Mismatch.Heavy)
	v.SetDefault("assertion.match.light", defaults.Assertion.Match.Light)
	v.SetDefault("assertion.match.heavy", defaults.Assertion.Match.Heavy)
	v.SetDefault("assertion.mismatch.light", defaults.Assertion.Mismatch.Light)
	v.SetDefault("assertion.mismatch.heavy", defaults.Assertion.Mismatch.Heavy)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read context weights from %s: %w", path, err)
		}
	}

	weights := &ContextWeights{}
	if err := v.Unmarshal(weights); err != nil {
		return nil, fmt.Errorf("failed to decode context weights: %w", err)
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid context weights configuration: %w", err)
	}
	return weights, nil
}

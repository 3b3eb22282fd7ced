package shared

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"steam_reviews/internal/domain"
)

// LoadPolicy reads a sampling policy from a YAML file. Keys missing from the
// file keep their default values; an empty path returns the defaults.
// Unbounded strata use `max_hours: .inf` or omit max_hours.
func LoadPolicy(path string) (domain.SamplingPolicy, error) {
	p := domain.DefaultPolicy()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SamplingPolicy{}, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return domain.SamplingPolicy{}, fmt.Errorf("failed to parse policy YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return domain.SamplingPolicy{}, fmt.Errorf("invalid policy %s: %w", path, err)
	}
	return p, nil
}

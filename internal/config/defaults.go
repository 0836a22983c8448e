package config

// NewDefaults returns a Config populated with all default values.
func NewDefaults() *Config {
	return &Config{
		Run: RunConfig{
			Paths:       []string{"**/*.scenario.toml", "**/*.scenario.yaml", "**/*.scenario.yml"},
			Concurrency: 4,
			Format:      FormatText,
		},
		Modules: ModulesConfig{
			Enabled: []string{"asserts", "fixtures"},
		},
	}
}

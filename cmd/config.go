package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"db-verify/internal/schema"
	"db-verify/internal/verify"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return activeConfig, nil
}

// loadDeclaration reads the schema declaration from the verify config key,
// falling back to the built-in university schema when none is configured.
func loadDeclaration() (*schema.Declaration, error) {
	if !viper.IsSet("verify.tables") {
		return schema.DefaultDeclaration(), nil
	}
	var decl schema.Declaration
	if err := viper.UnmarshalKey("verify", &decl); err != nil {
		return nil, fmt.Errorf("failed to parse verify config: %w", err)
	}
	return &decl, nil
}

// loadAliases merges configured column aliases over the built-in defaults.
func loadAliases() schema.AliasSet {
	aliases := schema.DefaultAliases()
	extra := viper.GetStringMapStringSlice("verify.aliases")
	for field, cands := range extra {
		aliases[field] = cands
	}
	return aliases
}

// loadPreviews reads the sample-inspector config; the defaults cover the
// stock dataset's encrypted tables.
func loadPreviews() ([]verify.PreviewSpec, error) {
	if !viper.IsSet("verify.previews") {
		return []verify.PreviewSpec{
			{Table: "takes", Preserve: []string{"ID", "course_id", "sec_id", "semester", "year"}},
			{Table: "student", Preserve: []string{"ID", "dept_name"}},
			{Table: "instructor", Preserve: []string{"ID", "dept_name"}},
		}, nil
	}
	var specs []verify.PreviewSpec
	if err := viper.UnmarshalKey("verify.previews", &specs); err != nil {
		return nil, fmt.Errorf("failed to parse previews config: %w", err)
	}
	return specs, nil
}

// loadOptions collects tuning settings (Flag handling is done per command).
func loadOptions() verify.Options {
	return verify.Options{
		BatchSize:    viper.GetInt("settings.batch_size"),
		AnomalyLimit: viper.GetInt("settings.anomaly_limit"),
		SampleLimit:  viper.GetInt("settings.sample_limit"),
		Workers:      viper.GetInt("settings.workers"),
		Aliases:      loadAliases(),
	}
}

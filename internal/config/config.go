// Package config loads the YAML run configuration shared by the CLI commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"knapsack/internal/ga"
	"knapsack/internal/knapsack"
	"knapsack/internal/logging"
	"knapsack/internal/sa"
)

// File mirrors the on-disk configuration. Missing sections keep their
// defaults.
type File struct {
	// OffsetFraction is the share of the total item value added to every
	// infeasible candidate's penalty.
	OffsetFraction float64 `yaml:"offset_fraction" json:"offset_fraction" validate:"gte=0"`

	GA    ga.Config      `yaml:"ga" json:"ga"`
	SA    sa.Config      `yaml:"sa" json:"sa"`
	Bench Bench          `yaml:"bench" json:"bench"`
	Log   logging.Config `yaml:"log" json:"log"`
	Store Store          `yaml:"store" json:"store"`
}

type Bench struct {
	Runs     int           `yaml:"runs" json:"runs" validate:"min=1"`
	BaseSeed int64         `yaml:"base_seed" json:"base_seed"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" validate:"gte=0"`
	Out      string        `yaml:"out" json:"out" validate:"required"`

	ToySeeds []int64               `yaml:"toy_seeds" json:"toy_seeds"`
	Random   []knapsack.RandomSpec `yaml:"random" json:"random"`
}

type Store struct {
	Backend string `yaml:"backend" json:"backend" validate:"omitempty,oneof=memory sqlite"`
	Path    string `yaml:"path" json:"path" validate:"required_if=Backend sqlite"`
}

var validate = validator.New()

func Default() File {
	return File{
		OffsetFraction: knapsack.DefaultOffsetFraction,
		GA:             ga.DefaultConfig(),
		SA:             sa.DefaultConfig(),
		Bench: Bench{
			Runs:     10,
			BaseSeed: 1,
			Out:      "results/knapsack.csv",
			ToySeeds: []int64{1, 2, 3},
			Random: []knapsack.RandomSpec{
				{Items: 200, MeanValue: 50, ValueSpread: 20, MeanSize: 30, SizeSpread: 10},
			},
		},
		Log:   logging.Config{Level: "info"},
		Store: Store{Backend: "memory"},
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return File{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return File{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (f File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	for i, spec := range f.Bench.Random {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("bench.random[%d]: %w", i, err)
		}
	}
	return errors.Join(
		wrap("ga", f.GA.Validate()),
		wrap("sa", f.SA.Validate()),
	)
}

func wrap(section string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", section, err)
}

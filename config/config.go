// Package config is for app-wide settings unmarshalled from Viper
// (hcr-prober.yaml plus bound command-line flags, see /cmd).
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/invertome/hcr-prober/internal/blast"
	"github.com/invertome/hcr-prober/internal/prober"
	"github.com/invertome/hcr-prober/internal/sequence"
	"github.com/invertome/hcr-prober/internal/thermo"
)

// Config is the root settings struct. It is populated once at command
// startup and passed by value into the pipeline; nothing mutates it
// mid-run.
type Config struct {
	// Input is the target/isoform FASTA path.
	Input string `mapstructure:"input"`

	// OutputDir receives the per-job result directories.
	OutputDir string `mapstructure:"output-dir"`

	// Amplifiers are the HCR amplifier names to design for.
	Amplifiers []string `mapstructure:"amplifier"`

	// AmplifierDir holds the amplifier plugin JSON files.
	AmplifierDir string `mapstructure:"amplifier-dir"`

	// GeneName restricts a design run to one transcript id.
	GeneName string `mapstructure:"gene-name"`

	// PoolName overrides the generated order-sheet pool name.
	PoolName string `mapstructure:"pool-name"`

	// Seed pins the IUPAC spacer randomness; 0 means fresh randomness
	// per run.
	Seed int64 `mapstructure:"seed"`

	// Threads is the number of concurrent design jobs; 0 means one
	// per CPU.
	Threads int `mapstructure:"threads"`

	// core design parameters
	WindowSize int `mapstructure:"window-size"`
	ProbeLen   int `mapstructure:"probe-len"`
	SpacerLen  int `mapstructure:"spacer-len"`
	MaxProbes  int `mapstructure:"max-probes"`
	Skip5Prime int `mapstructure:"skip-5prime"`

	// MinProbeDistance is the minimum gap between selected probe
	// footprints.
	MinProbeDistance int `mapstructure:"min-probe-distance"`

	// thermodynamic and sequence filters
	MinGC          float64 `mapstructure:"min-gc"`
	MaxGC          float64 `mapstructure:"max-gc"`
	MinTm          float64 `mapstructure:"min-tm"`
	MaxTm          float64 `mapstructure:"max-tm"`
	MaxHomopolymer int     `mapstructure:"max-homopolymer"`
	MaxGCDiff      float64 `mapstructure:"max-gc-diff"`

	// masking inputs
	MaskSequences string `mapstructure:"mask-sequences"`
	MaskRegions   string `mapstructure:"mask-regions"`

	// BLAST specificity screen
	BlastRef       string  `mapstructure:"blast-ref"`
	DBPath         string  `mapstructure:"db-path"`
	Strategy       string  `mapstructure:"positive-selection-strategy"`
	TargetID       string  `mapstructure:"target-transcript-id"`
	MinBitscore    float64 `mapstructure:"min-bitscore"`
	MaxEvalue      float64 `mapstructure:"max-evalue"`
	BlastExtraArgs string  `mapstructure:"blast-extra-args"`

	// isoform-split settings
	GenePrefixes []string `mapstructure:"gene-prefix"`
	Delimiter    string   `mapstructure:"delimiter"`
}

// New returns a Config populated from Viper (the local
// hcr-prober.yaml and/or bound command-line flags).
func New() (Config, error) {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode settings: %w", err)
	}
	return c, nil
}

// Params converts the flat settings into the funnel's parameter
// struct, parsing the mask inputs.
func (c Config) Params(maskSeqs []string) prober.Params {
	return prober.Params{
		WindowSize:       c.WindowSize,
		ProbeLen:         c.ProbeLen,
		SpacerLen:        c.SpacerLen,
		Skip5Prime:       c.Skip5Prime,
		MinGC:            c.MinGC,
		MaxGC:            c.MaxGC,
		MinTm:            c.MinTm,
		MaxTm:            c.MaxTm,
		MaxHomopolymer:   c.MaxHomopolymer,
		MaxGCDiff:        c.MaxGCDiff,
		MinProbeDistance: c.MinProbeDistance,
		MaskRegions:      sequence.ParseMaskRegions(c.MaskRegions),
		MaskSequences:    maskSeqs,
	}
}

// Conditions returns the fixed salt/concentration setup for Tm
// calculations.
func (c Config) Conditions() thermo.Conditions {
	return thermo.DefaultConditions
}

// ParseStrategy resolves the configured selection strategy once;
// unknown names and a missing target id for specific-id are
// configuration errors.
func (c Config) ParseStrategy() (blast.Strategy, error) {
	return blast.ParseStrategy(c.Strategy, c.TargetID)
}

// Validate reports configuration errors that must stop the run before
// any pipeline work begins.
func (c Config) Validate(amplifiers map[string]prober.Amplifier) error {
	if c.Input == "" {
		return fmt.Errorf("no input FASTA given")
	}
	if len(c.Amplifiers) == 0 {
		return fmt.Errorf("at least one amplifier is required")
	}
	for _, name := range c.Amplifiers {
		if _, ok := amplifiers[name]; !ok {
			return fmt.Errorf("amplifier %q not found", name)
		}
	}
	if c.ProbeLen*2+c.SpacerLen > c.WindowSize {
		return fmt.Errorf("probe-len*2 + spacer-len must not exceed window-size")
	}
	if _, err := c.ParseStrategy(); err != nil {
		return err
	}
	return nil
}

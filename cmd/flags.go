package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/invertome/hcr-prober/config"
)

// addSharedDesignFlags registers the flags common to the design and
// isoform-split commands.
func addSharedDesignFlags(cmd *cobra.Command) {
	// processing and performance
	cmd.Flags().String("db-path", "", "permanent directory to store/find BLAST databases")
	cmd.Flags().Int("threads", 0, "number of concurrent design jobs (0 = one per CPU)")
	cmd.Flags().Int64("seed", 0, "seed for IUPAC spacer resolution (0 = fresh randomness)")
	cmd.Flags().String("amplifier-dir", "amplifiers", "directory of amplifier plugin JSON files")

	// core design parameters
	cmd.Flags().StringSlice("amplifier", nil, "one or more HCR amplifier IDs")
	cmd.Flags().Int("max-probes", 33, "maximum number of probe pairs to select")
	cmd.Flags().Int("skip-5prime", 100, "nucleotides to exclude at the 5' end")
	cmd.Flags().Int("min-probe-distance", 0, "minimum gap between selected probe footprints")
	cmd.Flags().String("mask-sequences", "", "path to a FASTA of sequences to exclude (e.g. repeats)")
	cmd.Flags().String("mask-regions", "", "sense-strand regions to exclude, e.g. \"1-100,500-650\"")

	// thermodynamic and sequence filters
	cmd.Flags().Float64("min-gc", 0, "minimum %GC (default off)")
	cmd.Flags().Float64("max-gc", 100, "maximum %GC (default off)")
	cmd.Flags().Float64("min-tm", 0, "minimum arm Tm in Celsius (default off)")
	cmd.Flags().Float64("max-tm", 100, "maximum arm Tm in Celsius (default off)")
	cmd.Flags().Int("max-homopolymer", 4, "longest allowed homopolymer run")
	cmd.Flags().Float64("max-gc-diff", 15, "maximum %GC difference between the two arms")

	// BLAST specificity screen
	cmd.Flags().String("blast-ref", "", "path to a FASTA for the positive BLAST screen")
	cmd.Flags().String("positive-selection-strategy", "any-strong-hit",
		"probe selection strategy: any-strong-hit, specific-id or best-coverage")
	cmd.Flags().String("target-transcript-id", "", "transcript ID to target with the specific-id strategy")
	cmd.Flags().Float64("min-bitscore", 75, "minimum bitscore for a plausible hit")
	cmd.Flags().Float64("max-evalue", 1e-10, "maximum e-value for a plausible hit")
	cmd.Flags().String("blast-extra-args", "", "extra arguments passed through to blastn")

	// advanced structural parameters
	cmd.Flags().Int("window-size", 52, "probe pair window width")
	cmd.Flags().Int("probe-len", 25, "length of each probe arm")
	cmd.Flags().Int("spacer-len", 2, "gap between the two arms")

	cmd.MarkFlagRequired("amplifier")
}

// bindFlags pushes the executed command's flags into viper so they
// land in config.New. Binding at PreRun time keeps sibling commands'
// identically-named flags from shadowing each other.
func bindFlags(cmd *cobra.Command, args []string) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		logrus.Fatal(err)
	}
}

// loadConfig builds and validates the run configuration, loading the
// amplifier plugins along the way. Configuration errors are fatal
// before any pipeline work begins.
func loadConfig() config.Config {
	cfg, err := config.New()
	if err != nil {
		logrus.Fatal(err)
	}
	return cfg
}

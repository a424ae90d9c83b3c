package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/invertome/hcr-prober/internal/seqio"
)

// designCmd designs probes for standard transcripts: one job per
// (transcript, amplifier) combination.
var designCmd = &cobra.Command{
	Use:    "design",
	Short:  "Design probe pairs for one or more target transcripts",
	PreRun: bindFlags,
	Run:    runDesign,
}

func init() {
	rootCmd.AddCommand(designCmd)

	designCmd.Flags().StringP("input", "i", "", "input FASTA file of target transcript(s)")
	designCmd.Flags().StringP("output-dir", "o", "hcr_prober_output", "output directory")
	designCmd.Flags().String("gene-name", "", "process only this transcript ID")
	designCmd.Flags().String("pool-name", "", "custom name for the probe pool")
	addSharedDesignFlags(designCmd)

	designCmd.MarkFlagRequired("input")
}

func runDesign(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	env := setupRun(cfg)

	// a missing primary input file is fatal
	records, err := seqio.Read(cfg.Input)
	if err != nil {
		logrus.Fatal(err)
	}

	var jobs []job
	for _, r := range records {
		if cfg.GeneName != "" && r.ID != cfg.GeneName {
			continue
		}
		for _, amp := range cfg.Amplifiers {
			jobs = append(jobs, job{gene: r.ID, seq: r.Seq, amplifier: amp})
		}
	}
	if len(jobs) == 0 {
		logrus.Fatalf("no sequences found in %s matching --gene-name %q", cfg.Input, cfg.GeneName)
	}

	runJobs(env, jobs)
	logrus.Info("hcr-prober pipeline finished")
}

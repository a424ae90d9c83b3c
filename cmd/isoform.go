package cmd

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/invertome/hcr-prober/internal/interval"
	"github.com/invertome/hcr-prober/internal/isoform"
	"github.com/invertome/hcr-prober/internal/seqio"
)

// isoformCmd designs two probe sets per gene group: probes against the
// regions every isoform shares, and probes against each isoform's
// unique regions.
var isoformCmd = &cobra.Command{
	Use:    "isoform-split",
	Short:  "Design probes for common and unique regions of isoforms",
	PreRun: bindFlags,
	Run:    runIsoformSplit,
}

func init() {
	rootCmd.AddCommand(isoformCmd)

	isoformCmd.Flags().StringP("input", "i", "", "input FASTA with all isoforms for one or more genes")
	isoformCmd.Flags().StringP("output-dir", "o", "hcr_isoform_output", "output directory")
	isoformCmd.Flags().StringSlice("gene-prefix", nil, "gene prefix(es) to process from the input file")
	isoformCmd.Flags().String("delimiter", "_", "delimiter separating gene prefix from isoform ID")
	addSharedDesignFlags(isoformCmd)

	isoformCmd.MarkFlagRequired("input")
	isoformCmd.MarkFlagRequired("gene-prefix")
}

func runIsoformSplit(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	env := setupRun(cfg)

	records, err := seqio.Read(cfg.Input)
	if err != nil {
		logrus.Fatal(err)
	}
	groups := isoform.GroupByPrefix(records, cfg.Delimiter)

	aligner := isoform.NewSWAligner()
	var jobs []job
	for _, prefix := range cfg.GenePrefixes {
		group, ok := groups[prefix]
		if !ok {
			logrus.Warnf("gene prefix %q not found, skipping", prefix)
			continue
		}

		logrus.Infof("===== analyzing gene group: %s =====", prefix)
		refID, common, err := isoform.CommonRegions(group, aligner, cfg.WindowSize)
		if err != nil {
			logrus.Fatal(err)
		}
		refSeq := group[refID]

		// common-region probes on the reference, with the unique
		// regions masked out
		unique := interval.Invert(len(refSeq), common)
		commonDir := filepath.Join(cfg.OutputDir, prefix, "common_probes")
		for _, amp := range cfg.Amplifiers {
			jobs = append(jobs, job{
				gene:        prefix + "_common",
				seq:         refSeq,
				amplifier:   amp,
				maskRegions: unique,
				outDir:      commonDir,
			})
		}

		// isoform-specific probes on each isoform, with the common
		// regions masked out
		uniqueDir := filepath.Join(cfg.OutputDir, prefix, "isoform_specific_probes")
		for isoID, isoSeq := range group {
			for _, amp := range cfg.Amplifiers {
				jobs = append(jobs, job{
					gene:        isoID,
					seq:         isoSeq,
					amplifier:   amp,
					maskRegions: common,
					outDir:      uniqueDir,
				})
			}
		}
	}

	if len(jobs) == 0 {
		logrus.Fatal("no gene groups matched the requested prefixes")
	}

	runJobs(env, jobs)
	logrus.Info("hcr-prober pipeline finished")
}

// Package output writes per-job result files: the troubleshooting
// summary (always), and the FASTA, order-sheet and probe-map files
// when a job produced probes.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/invertome/hcr-prober/internal/blast"
	"github.com/invertome/hcr-prober/internal/prober"
	"github.com/invertome/hcr-prober/internal/seqio"
)

// Job captures everything the writers need about one finished
// (gene, amplifier) run.
type Job struct {
	Gene      string
	Amplifier string
	SeqLen    int

	// final probes, already screened and subsampled
	Probes []prober.Pair

	Audit  *prober.Audit
	Report *blast.Report

	// run parameters echoed into the summary
	Params      prober.Params
	BlastRef    string
	Strategy    string
	TargetID    string
	MinBitscore float64
	MaxEvalue   float64

	PoolName string
}

// stage name → human label for the summary funnel table
var stageLabels = map[string]string{
	prober.StageInitial:    "Initial Windows",
	prober.Stage5PrimeSkip: "After 5' Skip",
	prober.StageRegionMask: "After Region Mask",
	prober.StageSeqMask:    "After Sequence Mask",
	prober.StageThermo:     "After Thermo/Homopolymer Filter",
	prober.StageGCBalance:  "After GC Balance Filter",
	prober.StageTm:         "After Tm Filter",
	prober.StageOverlap:    "After Overlap Filter",
	prober.StageFormat:     "Formatted for BLAST",
	prober.StageBlast:      "After BLAST Screen",
	prober.StageSubsample:  "After Final Subsampling",
}

// Write writes all output files for the job into
// <outDir>/<gene>/<amplifier>/. The summary is written even when no
// probes survived, so a failed design is diagnosable without a re-run.
func Write(outDir string, job Job) error {
	dir := filepath.Join(outDir, job.Gene, job.Amplifier)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	base := fmt.Sprintf("%s_%s", job.Gene, job.Amplifier)
	if err := writeSummary(filepath.Join(dir, base+"_summary.txt"), job); err != nil {
		return err
	}

	if len(job.Probes) == 0 {
		logrus.Warnf("no final probes for %s with amplifier %s, a detailed report was written to %s", job.Gene, job.Amplifier, dir)
		return nil
	}

	logrus.Infof("writing %d probe pairs for %s - %s to %s", len(job.Probes), job.Gene, job.Amplifier, dir)

	if err := writeFasta(filepath.Join(dir, base+"_probes.fasta"), job); err != nil {
		return err
	}
	if err := writeOrderSheet(filepath.Join(dir, base+"_order.xlsx"), job); err != nil {
		return err
	}
	return writeProbeMap(filepath.Join(dir, base+"_probe_map.svg"), job)
}

func writeSummary(path string, job Job) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "hcr-prober summary for: %s | amplifier: %s\n", job.Gene, job.Amplifier)
	fmt.Fprintln(f, strings.Repeat("=", 70))

	if len(job.Probes) == 0 {
		fmt.Fprintln(f, "\n*** PIPELINE FAILED TO PRODUCE ANY FINAL PROBES ***")
	}

	fmt.Fprintln(f, "\n--- Run Parameters ---")
	fmt.Fprintf(f, "  Target Sequence Length: %d nt\n", job.SeqLen)
	fmt.Fprintf(f, "  GC Range: %g-%g %%\n", job.Params.MinGC, job.Params.MaxGC)
	fmt.Fprintf(f, "  Tm Range: %g-%g C\n", job.Params.MinTm, job.Params.MaxTm)
	if job.BlastRef != "" {
		fmt.Fprintf(f, "  BLAST Reference: %s\n", filepath.Base(job.BlastRef))
		fmt.Fprintf(f, "  Bitscore Cutoff: %g\n", job.MinBitscore)
		fmt.Fprintf(f, "  E-value Cutoff: %g\n", job.MaxEvalue)
		fmt.Fprintf(f, "  Positive Selection Strategy: %s\n", job.Strategy)
		if job.TargetID != "" {
			fmt.Fprintf(f, "    Target Transcript ID: %s\n", job.TargetID)
		}
	}

	fmt.Fprintln(f, "\n--- Filtering Funnel ---")
	for _, e := range job.Audit.Entries() {
		label := stageLabels[e.Stage]
		if label == "" {
			label = e.Stage
		}
		fmt.Fprintf(f, "  %7d %s\n", e.Count, label)
	}
	fmt.Fprintln(f, "  ---------------------------")
	fmt.Fprintf(f, "  %7d Final Probe Pairs\n", len(job.Probes))

	writeBlastReport(f, job.Report)
	return nil
}

func writeBlastReport(f *os.File, report *blast.Report) {
	if report == nil {
		return
	}

	fmt.Fprintln(f, "\n"+strings.Repeat("=", 70))
	fmt.Fprintln(f, "--- DETAILED BLAST REPORT ---")
	fmt.Fprintln(f, strings.Repeat("=", 70))

	if len(report.PlausibleHits) == 0 {
		fmt.Fprintln(f, "\n[+] No BLAST hits passed the bitscore/e-value filter.")
		return
	}

	fmt.Fprintln(f, "\n[+] High-Quality BLAST Hits (Probes Passing Filter):")
	fmt.Fprintln(f, "This table shows ALL plausible hits found for ANY probe candidate.")
	fmt.Fprintln(f, "The final probes were selected from this pool by the chosen selection strategy.")

	tw := tabwriter.NewWriter(f, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "pair_id\thit_id\tpident\tlength\tmismatch\tevalue\tbitscore")
	for _, h := range report.PlausibleHits {
		fmt.Fprintf(tw, "%s\t%s\t%.3f\t%d\t%d\t%.2g\t%.1f\n",
			h.PairID, h.HitID, h.PIdent, h.Length, h.Mismatch, h.EValue, h.Bitscore)
	}
	tw.Flush()
}

func writeFasta(path string, job Job) error {
	probes := sortedProbes(job.Probes)
	records := make([]seqio.Record, 0, len(probes)*2)
	for _, p := range probes {
		records = append(records,
			seqio.Record{ID: p.ID + "_A", Seq: p.FinalDn},
			seqio.Record{ID: p.ID + "_B", Seq: p.FinalUp},
		)
	}
	return seqio.Write(path, records)
}

func writeOrderSheet(path string, job Job) error {
	pool := job.PoolName
	if pool == "" {
		pool = fmt.Sprintf("%s_%s_PP%d", job.Amplifier, job.Gene, len(job.Probes))
	}

	x := excelize.NewFile()
	defer x.Close()

	sheet := x.GetSheetName(0)
	x.SetCellValue(sheet, "A1", "Pool name")
	x.SetCellValue(sheet, "B1", "Sequence")

	row := 2
	for _, p := range sortedProbes(job.Probes) {
		for _, seq := range []string{p.FinalDn, p.FinalUp} {
			x.SetCellValue(sheet, fmt.Sprintf("A%d", row), pool)
			x.SetCellValue(sheet, fmt.Sprintf("B%d", row), seq)
			row++
		}
	}

	if err := x.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write order sheet %s: %w", path, err)
	}
	return nil
}

// writeProbeMap draws a one-track SVG of probe footprints along the
// transcript.
func writeProbeMap(path string, job Job) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create probe map %s: %w", path, err)
	}
	defer f.Close()

	const (
		width  = 1000.0
		height = 120
		trackY = 50
	)
	scale := width / float64(job.SeqLen)

	fmt.Fprintf(f, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n", int(width), height)
	fmt.Fprintf(f, `<text x="5" y="20" font-family="monospace" font-size="14">%s | %s | %d nt</text>`+"\n",
		job.Gene, job.Amplifier, job.SeqLen)
	fmt.Fprintf(f, `<line x1="0" y1="%d" x2="%d" y2="%d" stroke="black" stroke-width="2"/>`+"\n",
		trackY, int(width), trackY)

	for _, p := range sortedProbes(job.Probes) {
		x := float64(p.StartSense) * scale
		w := float64(job.Params.WindowSize) * scale
		fmt.Fprintf(f, `<rect x="%.1f" y="%d" width="%.1f" height="14" fill="steelblue"><title>%s</title></rect>`+"\n",
			x, trackY+10, w, p.ID)
	}

	fmt.Fprintln(f, `</svg>`)
	return nil
}

func sortedProbes(probes []prober.Pair) []prober.Pair {
	sorted := make([]prober.Pair, len(probes))
	copy(sorted, probes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Num < sorted[j].Num })
	return sorted
}

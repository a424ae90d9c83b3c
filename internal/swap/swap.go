// Package swap rewrites existing probe order sheets to a different
// HCR amplifier without redesigning the probes: known initiators are
// recognized at either end of each oligo, stripped together with their
// spacer, and replaced with the new amplifier's.
package swap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/invertome/hcr-prober/internal/prober"
)

// initiator describes one known initiator end for recognition.
type initiator struct {
	amp    string
	seq    string
	spacer string
	up     bool
}

// Swapper rewrites order sheets from any known amplifier to one target
// amplifier.
type Swapper struct {
	amplifiers map[string]prober.Amplifier
	newAmp     prober.Amplifier
	newName    string
	upSpacer   string
	dnSpacer   string
	known      []initiator
}

// New builds a Swapper targeting newAmplifier. Spacer ambiguity codes
// in the new amplifier are resolved once through resolve (typically
// sequence.ResolveSpacer with a seeded source).
func New(amplifiers map[string]prober.Amplifier, newAmplifier string, resolve func(string) string) (*Swapper, error) {
	amp, ok := amplifiers[newAmplifier]
	if !ok {
		return nil, fmt.Errorf("amplifier %q not found", newAmplifier)
	}

	var known []initiator
	for name, a := range amplifiers {
		known = append(known,
			initiator{amp: name, seq: strings.ToUpper(a.Up), spacer: a.UpSpc, up: true},
			initiator{amp: name, seq: strings.ToUpper(a.Dn), spacer: a.DnSpc, up: false},
		)
	}

	return &Swapper{
		amplifiers: amplifiers,
		newAmp:     amp,
		newName:    newAmplifier,
		upSpacer:   resolve(amp.UpSpc),
		dnSpacer:   resolve(amp.DnSpc),
		known:      known,
	}, nil
}

// SwapSequence rewrites one oligo to the new amplifier. The boolean is
// false when no known initiator was recognized; the sequence is then
// returned unchanged.
func (s *Swapper) SwapSequence(seq string) (string, bool) {
	upper := strings.ToUpper(seq)
	for _, init := range s.known {
		strip := len(init.seq) + len(init.spacer)
		if init.up && strings.HasPrefix(upper, init.seq) {
			target := seq[strip:]
			return s.newAmp.Up + s.upSpacer + target, true
		}
		if !init.up && strings.HasSuffix(upper, init.seq) {
			target := seq[:len(seq)-strip]
			return target + s.dnSpacer + s.newAmp.Dn, true
		}
	}
	return seq, false
}

// swapPoolName rewrites an "<amp>_..." pool name to the new amplifier,
// or prefixes it when the leading token isn't a known amplifier.
func (s *Swapper) swapPoolName(pool string) string {
	if i := strings.Index(pool, "_"); i > 0 {
		if _, known := s.amplifiers[pool[:i]]; known {
			return s.newName + pool[i:]
		}
	}
	return s.newName + "_" + pool
}

// File rewrites a single order sheet to outPath.
func (s *Swapper) File(inPath, outPath string) error {
	x, err := excelize.OpenFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inPath, err)
	}
	defer x.Close()

	sheet := x.GetSheetName(0)
	rows, err := x.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", inPath, err)
	}
	if len(rows) < 2 || len(rows[0]) < 2 || rows[0][0] != "Pool name" || rows[0][1] != "Sequence" {
		return fmt.Errorf("%s is missing the required Pool name/Sequence columns", inPath)
	}

	out := excelize.NewFile()
	defer out.Close()
	outSheet := out.GetSheetName(0)
	out.SetCellValue(outSheet, "A1", "Pool name")
	out.SetCellValue(outSheet, "B1", "Sequence")

	outRow := 2
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		swapped, ok := s.SwapSequence(row[1])
		if !ok {
			logrus.Warnf("could not identify initiator for %q, keeping as-is", truncate(row[1], 10))
		}
		out.SetCellValue(outSheet, fmt.Sprintf("A%d", outRow), s.swapPoolName(row[0]))
		out.SetCellValue(outSheet, fmt.Sprintf("B%d", outRow), swapped)
		outRow++
	}

	if err := out.SaveAs(outPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	logrus.Infof("saved swapped file to %s", outPath)
	return nil
}

// Run processes a single .xlsx file or every .xlsx under a directory.
func (s *Swapper) Run(inPath, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	info, err := os.Stat(inPath)
	if err != nil {
		return fmt.Errorf("input path not found: %s", inPath)
	}

	if !info.IsDir() {
		return s.File(inPath, s.outPath(inPath, outDir))
	}

	var files []string
	err = filepath.WalkDir(inPath, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() && strings.HasSuffix(path, ".xlsx") {
			files = append(files, path)
		}
		return err
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logrus.Warnf("no .xlsx files found in %s", inPath)
		return nil
	}

	for _, f := range files {
		logrus.Infof("processing %s", filepath.Base(f))
		if err := s.File(f, s.outPath(f, outDir)); err != nil {
			logrus.Errorf("skipping %s: %v", f, err)
		}
	}
	return nil
}

func (s *Swapper) outPath(inPath, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	return filepath.Join(outDir, fmt.Sprintf("%s_swapped_to_%s.xlsx", base, s.newName))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

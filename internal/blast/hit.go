// Package blast wraps the NCBI BLAST+ binaries as the specificity
// collaborator: it builds nucleotide databases with makeblastdb, runs
// blastn over probe-pair queries and screens the resulting hit table
// against a selection strategy.
package blast

import (
	"strconv"
	"strings"
)

// Hit is one row of blastn tabular output (outfmt 6), consumed
// read-only by the screening strategies.
type Hit struct {
	PairID   string
	HitID    string
	PIdent   float64
	Length   int
	Mismatch int
	GapOpen  int
	QStart   int
	QEnd     int
	SStart   int
	SEnd     int
	EValue   float64
	Bitscore float64
}

// outfmt is the column list requested from blastn, matching Hit field
// order.
const outfmt = "6 qseqid sseqid pident length mismatch gapopen qstart qend sstart send evalue bitscore"

// ParseHits reads blastn outfmt-6 text into hit rows. Short or
// malformed lines are skipped; a hitless result is an empty table, not
// an error.
func ParseHits(raw string) []Hit {
	var hits []Hit
	for _, line := range strings.Split(raw, "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Fields(line)
		if len(cols) < 12 {
			continue
		}

		pident, err := strconv.ParseFloat(cols[2], 64)
		if err != nil {
			continue
		}
		length, _ := strconv.Atoi(cols[3])
		mismatch, _ := strconv.Atoi(cols[4])
		gapopen, _ := strconv.Atoi(cols[5])
		qstart, _ := strconv.Atoi(cols[6])
		qend, _ := strconv.Atoi(cols[7])
		sstart, _ := strconv.Atoi(cols[8])
		send, _ := strconv.Atoi(cols[9])
		evalue, err := strconv.ParseFloat(cols[10], 64)
		if err != nil {
			continue
		}
		bitscore, err := strconv.ParseFloat(cols[11], 64)
		if err != nil {
			continue
		}

		hits = append(hits, Hit{
			PairID:   cols[0],
			HitID:    cols[1],
			PIdent:   pident,
			Length:   length,
			Mismatch: mismatch,
			GapOpen:  gapopen,
			QStart:   qstart,
			QEnd:     qend,
			SStart:   sstart,
			SEnd:     send,
			EValue:   evalue,
			Bitscore: bitscore,
		})
	}

	return hits
}

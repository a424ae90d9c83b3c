// Package seqio reads and writes FASTA files. Sequences are kept as
// plain strings keyed by record id; the pipeline never needs more
// structure than that.
package seqio

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Record is one FASTA entry. Records preserves file order where the
// map form would not.
type Record struct {
	ID  string
	Seq string
}

// Read parses a FASTA file into ordered records. The record id is the
// first whitespace-delimited token of the header.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FASTA %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	var id string
	var seq strings.Builder

	flush := func() {
		if id != "" {
			records = append(records, Record{ID: id, Seq: seq.String()})
		}
		seq.Reset()
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			id = strings.Fields(line[1:])[0]
			continue
		}
		seq.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read FASTA %s: %w", path, err)
	}

	return records, nil
}

// ReadMap parses a FASTA file into an id → sequence map.
func ReadMap(path string) (map[string]string, error) {
	records, err := Read(path)
	if err != nil {
		return nil, err
	}

	seqs := make(map[string]string, len(records))
	for _, r := range records {
		seqs[r.ID] = r.Seq
	}
	return seqs, nil
}

// Write writes records to path in FASTA format.
func Write(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range records {
		fmt.Fprintf(w, ">%s\n%s\n", r.ID, r.Seq)
	}
	return w.Flush()
}

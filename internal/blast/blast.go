package blast

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// Query is one (pair id, query sequence) record submitted to the
// screen.
type Query struct {
	ID  string
	Seq string
}

// blastExec is a small utility object for one blastn invocation.
type blastExec struct {
	// queries to write into the input FASTA
	queries []Query

	// the path to the database being BLASTed against
	db string

	// the input and output files
	in  *os.File
	out *os.File

	// extra user-supplied blastn arguments, passed through verbatim
	extraArgs []string
}

// Run executes blastn for the queries against db and returns the
// parsed hit table. Queries with no hits simply contribute no rows. A
// failed invocation is logged and returns an error so the caller can
// treat the screen as "nothing passed" without aborting the run.
func Run(queries []Query, db, tempDir string, extraArgs []string) ([]Hit, error) {
	if len(queries) == 0 {
		return nil, nil
	}

	in, err := os.CreateTemp(tempDir, "hcr-query-*.fasta")
	if err != nil {
		return nil, fmt.Errorf("failed to create BLAST input file: %w", err)
	}
	defer os.Remove(in.Name())

	out, err := os.CreateTemp(tempDir, "hcr-hits-*.tsv")
	if err != nil {
		return nil, fmt.Errorf("failed to create BLAST output file: %w", err)
	}
	defer os.Remove(out.Name())

	b := &blastExec{
		queries:   queries,
		db:        db,
		in:        in,
		out:       out,
		extraArgs: extraArgs,
	}

	if err := b.input(); err != nil {
		return nil, fmt.Errorf("failed to write BLAST input file at %s: %w", in.Name(), err)
	}

	if err := b.run(); err != nil {
		logrus.Errorf("BLAST search failed: %v", err)
		return nil, err
	}

	return b.parse()
}

// input writes the query FASTA for blastn.
func (b *blastExec) input() error {
	for _, q := range b.queries {
		if _, err := fmt.Fprintf(b.in, ">%s\n%s\n", q.ID, q.Seq); err != nil {
			return err
		}
	}
	return b.in.Close()
}

// run calls the external blastn binary on the input file. blastn-short
// is tuned for queries under 50 nt, which probe-arm pairs are.
func (b *blastExec) run() error {
	flags := []string{
		"-task", "blastn-short",
		"-db", b.db,
		"-query", b.in.Name(),
		"-out", b.out.Name(),
		"-outfmt", outfmt,
	}
	flags = append(flags, b.extraArgs...)

	cmd := exec.Command("blastn", flags...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to execute blastn against %s: %v: %s", b.db, err, string(output))
	}
	return nil
}

// parse reads the tabular output into hit rows.
func (b *blastExec) parse() ([]Hit, error) {
	raw, err := os.ReadFile(b.out.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read BLAST output: %w", err)
	}
	return ParseHits(string(raw)), nil
}

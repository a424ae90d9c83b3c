package blast

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// buildLock serializes database builds. Jobs only read databases;
// builds happen before the job fan-out, and this lock keeps two
// concurrent callers from racing on the same half-written db.
var buildLock sync.Mutex

// EnsureDB makes sure a nucleotide BLAST database exists for refFasta
// under dbDir (the system temp dir when empty) and returns the
// database name prefix. The database is rebuilt only when refFasta is
// newer than the existing database files. A build failure is fatal to
// the caller: no meaningful specificity screen can run without it.
func EnsureDB(refFasta, dbDir string) (string, error) {
	if refFasta == "" {
		return "", nil
	}

	buildLock.Lock()
	defer buildLock.Unlock()

	base := filepath.Base(refFasta)
	prefix := strings.TrimSuffix(base, filepath.Ext(base))
	if dbDir == "" {
		dbDir = os.TempDir()
	}
	dbName := filepath.Join(dbDir, prefix)

	// .nsq is one of the files makeblastdb always writes; its mtime
	// tells us whether the db is stale
	refInfo, err := os.Stat(refFasta)
	if err != nil {
		return "", fmt.Errorf("failed to stat reference FASTA %s: %w", refFasta, err)
	}
	if dbInfo, err := os.Stat(dbName + ".nsq"); err == nil && refInfo.ModTime().Before(dbInfo.ModTime()) {
		return dbName, nil
	}

	logrus.Infof("creating/updating BLAST database for %s", base)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
	}

	cmd := exec.Command(
		"makeblastdb",
		"-in", refFasta,
		"-dbtype", "nucl",
		"-out", dbName,
		"-title", prefix,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to build BLAST database from %s: %v: %s", refFasta, err, string(output))
	}

	return dbName, nil
}

// CheckBinaries verifies that the BLAST+ executables are on PATH.
func CheckBinaries() error {
	for _, bin := range []string{"blastn", "makeblastdb"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("NCBI BLAST+ is required but %s was not found in PATH", bin)
		}
	}
	return nil
}

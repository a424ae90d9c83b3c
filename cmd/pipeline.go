package cmd

import (
	"math/rand"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/sirupsen/logrus"

	"github.com/invertome/hcr-prober/config"
	"github.com/invertome/hcr-prober/internal/blast"
	"github.com/invertome/hcr-prober/internal/interval"
	"github.com/invertome/hcr-prober/internal/output"
	"github.com/invertome/hcr-prober/internal/prober"
	"github.com/invertome/hcr-prober/internal/seqio"
)

// job is one independent (gene, amplifier) design unit.
type job struct {
	gene      string
	seq       string
	amplifier string

	// maskRegions overrides the configured mask for isoform runs;
	// nil means use the configured one.
	maskRegions []interval.Interval

	// outDir overrides the configured output directory.
	outDir string

	// seed for this job's spacer resolution
	seed int64
}

// runEnv is the state shared read-only by all jobs of one run.
type runEnv struct {
	cfg        config.Config
	amplifiers map[string]prober.Amplifier
	strategy   blast.Strategy
	db         string
	maskSeqs   []string
	tempDir    string
}

// setupRun performs the fatal-on-error preflight shared by design and
// isoform-split: amplifier loading, validation, dependency check and
// the single upfront BLAST database build.
func setupRun(cfg config.Config) *runEnv {
	amplifiers, err := config.LoadAmplifiers(cfg.AmplifierDir)
	if err != nil {
		logrus.Fatal(err)
	}
	if err := cfg.Validate(amplifiers); err != nil {
		logrus.Fatal(err)
	}

	strategy, err := cfg.ParseStrategy()
	if err != nil {
		logrus.Fatal(err)
	}

	env := &runEnv{
		cfg:        cfg,
		amplifiers: amplifiers,
		strategy:   strategy,
	}

	if cfg.BlastRef != "" {
		if err := blast.CheckBinaries(); err != nil {
			logrus.Fatal(err)
		}
		logrus.Info("dependency check passed: NCBI BLAST+ found")

		// build once, before the job fan-out, so workers only ever
		// read the database
		env.db, err = blast.EnsureDB(cfg.BlastRef, cfg.DBPath)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	if cfg.MaskSequences != "" {
		seqs, err := seqio.ReadMap(cfg.MaskSequences)
		if err != nil {
			logrus.Fatal(err)
		}
		for _, s := range seqs {
			env.maskSeqs = append(env.maskSeqs, s)
		}
	}

	tempDir, err := os.MkdirTemp("", "hcr-prober-")
	if err != nil {
		logrus.Fatal(err)
	}
	env.tempDir = tempDir

	return env
}

// seedJobs assigns per-job spacer seeds: derived from the configured
// seed when one was pinned, otherwise fresh per run.
func seedJobs(jobs []job, baseSeed int64) {
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	for i := range jobs {
		jobs[i].seed = baseSeed + int64(i)
	}
}

// runJobs fans the independent jobs out over a bounded worker pool.
// Jobs share no mutable state; the BLAST database is read-only by the
// time workers start.
func runJobs(env *runEnv, jobs []job) {
	defer os.RemoveAll(env.tempDir)
	seedJobs(jobs, env.cfg.Seed)

	threads := env.cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	logrus.Infof("starting %d design job(s) across %d worker(s)", len(jobs), threads)
	bar := pb.StartNew(len(jobs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, threads)
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := runJob(env, j); err != nil {
				logrus.Errorf("job %s-%s failed: %v", j.gene, j.amplifier, err)
			}
			bar.Increment()
		}(j)
	}
	wg.Wait()
	bar.Finish()
}

// runJob executes the full pipeline for one (gene, amplifier) pair:
// funnel, formatting, specificity screen, subsampling and output.
func runJob(env *runEnv, j job) error {
	cfg := env.cfg
	logrus.Infof("starting job: %s-%s", j.gene, j.amplifier)

	params := cfg.Params(env.maskSeqs)
	if j.maskRegions != nil {
		params.MaskRegions = j.maskRegions
	}

	candidates, audit := prober.Design(j.seq, params, cfg.Conditions())

	rng := rand.New(rand.NewSource(j.seed))
	amp := env.amplifiers[j.amplifier]
	pairs := prober.Format(candidates, j.gene, amp, len(j.seq), params.WindowSize, rng)
	audit.Record(prober.StageFormat, len(pairs))

	var report *blast.Report
	if cfg.BlastRef != "" {
		pairs, report = screenPairs(env, pairs)
		audit.Record(prober.StageBlast, len(pairs))
	}

	if len(pairs) > cfg.MaxProbes {
		logrus.Infof("(%s-%s) subsampling from %d pairs to a max of %d for even coverage",
			j.gene, j.amplifier, len(pairs), cfg.MaxProbes)
	}
	final := prober.Subsample(pairs, cfg.MaxProbes)
	audit.Record(prober.StageSubsample, len(final))

	outDir := j.outDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	return output.Write(outDir, output.Job{
		Gene:        j.gene,
		Amplifier:   j.amplifier,
		SeqLen:      len(j.seq),
		Probes:      final,
		Audit:       audit,
		Report:      report,
		Params:      params,
		BlastRef:    cfg.BlastRef,
		Strategy:    env.strategy.Name(),
		TargetID:    cfg.TargetID,
		MinBitscore: cfg.MinBitscore,
		MaxEvalue:   cfg.MaxEvalue,
		PoolName:    cfg.PoolName,
	})
}

// screenPairs runs the positive BLAST screen for the pairs. A failed
// blastn invocation degrades to "nothing passed" for this job; only
// database build failures (handled in setupRun) abort the run.
func screenPairs(env *runEnv, pairs []prober.Pair) ([]prober.Pair, *blast.Report) {
	if len(pairs) == 0 {
		return nil, &blast.Report{}
	}

	queries := make([]blast.Query, len(pairs))
	for i, p := range pairs {
		queries[i] = blast.Query{ID: p.ID, Seq: p.Query()}
	}

	hits, err := blast.Run(queries, env.db, env.tempDir, strings.Fields(env.cfg.BlastExtraArgs))
	if err != nil {
		hits = nil
	}

	passed, report := blast.Screen(hits, env.strategy, env.cfg.MinBitscore, env.cfg.MaxEvalue)
	logrus.Infof("%d of %d pairs passed the positive screen using the %q strategy",
		len(passed), len(pairs), env.strategy.Name())

	var kept []prober.Pair
	for _, p := range pairs {
		if passed[p.ID] {
			kept = append(kept, p)
		}
	}
	return kept, &report
}

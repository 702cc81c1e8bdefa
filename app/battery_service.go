// Package app orchestrates a full analysis battery over one sample and
// produces an auditable report: which procedures ran, with what seed, and
// which steps failed. Step failures are recorded, never fatal; each analysis
// call is independent.
package app

import (
	"context"
	"time"

	"groupwise/adapters/stats/describe"
	"groupwise/adapters/stats/diagnose"
	"groupwise/adapters/stats/effect"
	"groupwise/adapters/stats/omnibus"
	"groupwise/adapters/stats/posthoc"
	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
	"groupwise/internal"
	"groupwise/internal/config"
	"groupwise/internal/resample"
	"groupwise/ports"
)

// OmnibusStrategy selects the omnibus algorithm for a battery run.
type OmnibusStrategy string

const (
	OmnibusWelch            OmnibusStrategy = "welch"
	OmnibusPermutation      OmnibusStrategy = "permutation"
	OmnibusTrimmedBootstrap OmnibusStrategy = "trimmed_bootstrap"
)

// BatteryConfig selects the strategies for one run; zero values pick the
// Welch omnibus, Games-Howell post-hoc, and the package defaults.
type BatteryConfig struct {
	Omnibus     OmnibusStrategy
	PostHoc     posthoc.BaseTest
	SummaryTrim float64 // per-tail trim for the descriptive trimmed mean
}

// BatteryReport is the audit record of one battery invocation.
type BatteryReport struct {
	RunID     core.RunID     `json:"run_id"`
	Seed      int64          `json:"seed"`
	CreatedAt core.Timestamp `json:"created_at"`
	RuntimeMs int64          `json:"runtime_ms"`

	Summaries []analysis.GroupSummary `json:"summaries,omitempty"`
	Omnibus   *omnibus.Result         `json:"omnibus,omitempty"`
	CohenD    *analysis.EffectSize    `json:"cohen_d,omitempty"`
	RobustD   *analysis.EffectSize    `json:"robust_d,omitempty"`
	PostHoc   *analysis.PostHocTable  `json:"post_hoc,omitempty"`

	Normality           *analysis.TestResult `json:"normality,omitempty"`
	VarianceHomogeneity *analysis.TestResult `json:"variance_homogeneity,omitempty"`

	// Failures maps step name to error text for steps that could not run.
	Failures map[string]string `json:"failures,omitempty"`
}

// BatteryService wires the analysis adapters together behind one entry point.
type BatteryService struct {
	log  *internal.Logger
	pool *resample.Pool
	cfg  config.Config
}

// NewBatteryService builds a service around a seeded RNG port and defaults.
func NewBatteryService(logger *internal.Logger, rngPort ports.RNGPort, cfg config.Config) (*BatteryService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BatteryService{
		log:  logger,
		pool: resample.NewPool(rngPort, cfg.Workers),
		cfg:  cfg,
	}, nil
}

// Run executes the full battery: descriptives, the selected omnibus test,
// effect sizes (two-group measures when the sample has exactly two groups),
// the post-hoc table, and both assumption diagnostics.
func (s *BatteryService) Run(ctx context.Context, smp sample.Sample, bc BatteryConfig) (*BatteryReport, error) {
	start := time.Now()
	report := &BatteryReport{
		RunID:     core.RunID(core.NewID()),
		Seed:      s.cfg.Seed,
		CreatedAt: core.Now(),
		Failures:  map[string]string{},
	}

	summaryTrim := bc.SummaryTrim
	if summaryTrim == 0 {
		summaryTrim = describe.DefaultTrim
	}

	if summaries, err := describe.Summarize(smp, summaryTrim); err != nil {
		s.fail(report, "describe", err)
	} else {
		report.Summaries = summaries
	}

	tester := s.omnibusTester(bc.Omnibus)
	if result, err := tester.Test(ctx, smp); err != nil {
		s.fail(report, "omnibus", err)
	} else {
		report.Omnibus = result
	}

	if len(smp.Groups()) == 2 {
		if d, err := effect.CohenD(smp, effect.DefaultDPolicy); err != nil {
			s.fail(report, "cohen_d", err)
		} else {
			report.CohenD = d
		}
		rd, err := effect.RobustD(ctx, s.pool, smp, effect.RobustDConfig{
			Trim:      s.cfg.Trim,
			Resamples: s.cfg.Resamples,
			Seed:      s.cfg.Seed,
		})
		if err != nil {
			s.fail(report, "robust_d", err)
		} else {
			report.RobustD = rd
		}
	}

	if table, err := posthoc.Compare(ctx, s.pool, smp, posthoc.Config{
		Base:      bc.PostHoc,
		Trim:      s.cfg.Trim,
		Resamples: s.cfg.Resamples,
		Seed:      s.cfg.Seed,
	}); err != nil {
		s.fail(report, "post_hoc", err)
	} else {
		report.PostHoc = table
	}

	if normality, err := diagnose.Normality(smp); err != nil {
		s.fail(report, "normality", err)
	} else {
		report.Normality = normality
	}
	if bf, err := diagnose.BrownForsythe(smp); err != nil {
		s.fail(report, "variance_homogeneity", err)
	} else {
		report.VarianceHomogeneity = bf
	}

	report.RuntimeMs = time.Since(start).Milliseconds()
	if s.log != nil {
		s.log.Info("battery %s finished in %dms with %d failures",
			report.RunID, report.RuntimeMs, len(report.Failures))
	}
	return report, nil
}

func (s *BatteryService) omnibusTester(strategy OmnibusStrategy) omnibus.Tester {
	switch strategy {
	case OmnibusPermutation:
		return omnibus.NewPermutationTester(s.pool, s.cfg.Resamples, s.cfg.Seed)
	case OmnibusTrimmedBootstrap:
		return omnibus.NewTrimmedBootstrapTester(s.pool, s.cfg.Trim, s.cfg.Resamples, s.cfg.Seed)
	default:
		return omnibus.NewWelchTester()
	}
}

func (s *BatteryService) fail(report *BatteryReport, step string, err error) {
	report.Failures[step] = err.Error()
	if s.log != nil {
		s.log.Warn("battery step %s failed: %v", step, err)
	}
}

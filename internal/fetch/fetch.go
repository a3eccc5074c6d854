package fetch

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"catsearch/internal/catalog"
)

// FrequencyLimits is the closed frequency window, in MHz, that fetched lines
// must fall into. Unbounded returns the whole-spectrum window.
type FrequencyLimits struct {
	Min float64
	Max float64
}

// Unbounded covers every frequency.
func Unbounded() FrequencyLimits {
	return FrequencyLimits{Min: math.Inf(-1), Max: math.Inf(1)}
}

// Contains reports whether f lies inside the window.
func (l FrequencyLimits) Contains(f float64) bool {
	return f >= l.Min && f <= l.Max
}

// Species identifies one substance in a source's directory. The advertised
// frequency coverage, when the directory reports one, lets the orchestrator
// skip substances that cannot intersect the requested window; zero values
// mean unknown and never exclude a species.
type Species struct {
	Tag          int
	Name         string
	MinFrequency float64
	MaxFrequency float64
}

// Source is one upstream catalog service. Directory must be called before
// Fetch so the source can cache per-substance metadata.
type Source interface {
	Name() string
	Directory(ctx context.Context) ([]Species, error)
	Fetch(ctx context.Context, species Species, limits FrequencyLimits) (catalog.Entry, error)
}

// ProgressFunc receives the completed and total substance counts. It is
// called once before the first substance and after every completion, from
// worker goroutines; implementations must be safe for concurrent use.
type ProgressFunc func(done, total int)

// Result carries everything a fetch produced, including partial output of a
// cancelled run.
type Result struct {
	Entries   []catalog.Entry
	Cancelled bool
	Total     int
	Failures  []Failure
}

// Options tune the orchestrator.
type Options struct {
	// Concurrency bounds the number of in-flight substance requests.
	Concurrency int
	// Attempts is the per-substance try count for transient failures.
	Attempts int
	// RetryDelay is the base backoff delay, doubled per attempt with jitter.
	RetryDelay time.Duration
	Logger     *slog.Logger
	Progress   ProgressFunc
}

const (
	defaultConcurrency = 8
	defaultAttempts    = 3
	defaultRetryDelay  = 500 * time.Millisecond
)

// Orchestrator fans per-substance requests out across one or more sources.
type Orchestrator struct {
	sources []Source
	opts    Options
	logger  *slog.Logger
}

// New builds an orchestrator over the given sources.
func New(opts Options, sources ...Source) *Orchestrator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{sources: sources, opts: opts, logger: logger}
}

type job struct {
	source  Source
	species Species
}

// Fetch enumerates every source's directory and downloads all substances
// that may intersect limits. A substance that keeps failing is logged,
// recorded in Result.Failures, and skipped. When ctx is cancelled the
// entries collected so far are returned with Cancelled set; the error is nil
// in that case because partial results are a valid outcome.
func (o *Orchestrator) Fetch(ctx context.Context, limits FrequencyLimits) (Result, error) {
	logger := o.logger.With(slog.String("session", uuid.NewString()))

	result := Result{}
	var jobs []job
	for _, source := range o.sources {
		if ctx.Err() != nil {
			result.Cancelled = true
			return result, nil
		}
		species, err := source.Directory(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				result.Cancelled = true
				return result, nil
			}
			logger.Warn("directory listing failed",
				slog.String("source", source.Name()),
				slog.Any("error", err))
			result.Failures = append(result.Failures, Failure{Source: source.Name(), Err: err})
			continue
		}
		for _, sp := range species {
			if skipByAdvertisedRange(sp, limits) {
				continue
			}
			jobs = append(jobs, job{source: source, species: sp})
		}
	}

	result.Total = len(jobs)
	if o.opts.Progress != nil {
		o.opts.Progress(0, result.Total)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done atomic.Int64
		sem  = make(chan struct{}, o.opts.Concurrency)
	)
	for _, jb := range jobs {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			result.Cancelled = true
		}
		if result.Cancelled {
			break
		}
		wg.Add(1)
		go func(jb job) {
			defer wg.Done()
			defer func() { <-sem }()

			entry, err := o.fetchSubstance(ctx, logger, jb, limits)
			switch {
			case err == nil:
				if len(entry.Lines) > 0 {
					mu.Lock()
					result.Entries = append(result.Entries, entry)
					mu.Unlock()
				}
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				// Abandoned in flight; nothing to record.
				return
			default:
				logger.Warn("substance fetch failed",
					slog.String("source", jb.source.Name()),
					slog.Int("tag", jb.species.Tag),
					slog.Any("error", err))
				mu.Lock()
				result.Failures = append(result.Failures, Failure{
					Source: jb.source.Name(),
					Tag:    jb.species.Tag,
					Err:    err,
				})
				mu.Unlock()
			}
			n := int(done.Add(1))
			if o.opts.Progress != nil {
				o.opts.Progress(n, result.Total)
			}
		}(jb)
	}
	wg.Wait()

	if ctx.Err() != nil {
		result.Cancelled = true
	}
	result.Entries = dedupeByTag(result.Entries)
	logger.Info("fetch finished",
		slog.Int("entries", len(result.Entries)),
		slog.Int("failures", len(result.Failures)),
		slog.Bool("cancelled", result.Cancelled))
	return result, nil
}

// fetchSubstance runs the bounded retry loop for one substance. Only
// transient failures are retried; the cancellation token is checked at the
// top of every attempt.
func (o *Orchestrator) fetchSubstance(ctx context.Context, logger *slog.Logger, jb job, limits FrequencyLimits) (catalog.Entry, error) {
	var lastErr error
	for attempt := 0; attempt < o.opts.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return catalog.Entry{}, err
		}
		if attempt > 0 {
			delay := backoffDelay(o.opts.RetryDelay, attempt)
			logger.Debug("retrying substance",
				slog.String("source", jb.source.Name()),
				slog.Int("tag", jb.species.Tag),
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return catalog.Entry{}, ctx.Err()
			}
		}
		entry, err := jb.source.Fetch(ctx, jb.species, limits)
		if err == nil {
			return entry, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return catalog.Entry{}, lastErr
}

// backoffDelay doubles the base per attempt and adds up to 50% jitter.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	return d + time.Duration(rand.Int63n(int64(d/2+1)))
}

// skipByAdvertisedRange drops a species only when the directory advertises a
// range that cannot intersect the requested window. This is an optimization:
// line-level filtering after download stays authoritative.
func skipByAdvertisedRange(sp Species, limits FrequencyLimits) bool {
	if sp.MinFrequency == 0 && sp.MaxFrequency == 0 {
		return false
	}
	if sp.MaxFrequency > 0 && sp.MaxFrequency < limits.Min {
		return true
	}
	return sp.MinFrequency > limits.Max
}

// dedupeByTag merges entries that share a species tag within one downloaded
// batch, keeping the set of lines merged and sorted. Distinct sources use
// disjoint tag ranges, so cross-source collisions do not occur.
func dedupeByTag(entries []catalog.Entry) []catalog.Entry {
	if len(entries) < 2 {
		return entries
	}
	byTag := make(map[int]int, len(entries))
	out := entries[:0]
	for _, entry := range entries {
		if i, ok := byTag[entry.SpeciesTag]; ok {
			merged := out[i]
			merged.Lines = append(append([]catalog.Line{}, merged.Lines...), entry.Lines...)
			if versionNumber(entry.Version) > versionNumber(merged.Version) {
				lines := merged.Lines
				merged = entry
				merged.Lines = lines
			}
			merged.SortLines()
			out[i] = merged
			continue
		}
		byTag[entry.SpeciesTag] = len(out)
		out = append(out, entry)
	}
	return out
}

// versionNumber ranks a version label numerically, so "10" beats "9".
// Unparsable labels rank below any numbered release.
func versionNumber(v string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return math.Inf(-1)
	}
	return n
}

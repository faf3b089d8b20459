package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	reportPermission    = 0600
)

type job struct {
	skill model.SkillLevel
	n     int
}

// Run probes the service at cfg.BaseURL. It checks health, reads the spot
// registry, then ranks every skill level cfg.Requests times across
// cfg.Workers workers. Any failed request or malformed ranking fails the run.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	c := cfg.withDefaults()
	log := c.Logger
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting surfcast probe",
		logger.String("baseURL", c.BaseURL),
		logger.Int("requestsPerSkill", c.Requests),
		logger.Int("workers", c.Workers),
		logger.Duration("timeout", c.Timeout),
	)

	client := newHTTPClient(c.BaseURL, c.Timeout)
	if err := client.health(ctx); err != nil {
		return stats, err
	}

	spots, err := client.spots(ctx)
	if err != nil {
		return stats, fmt.Errorf("list spots: %w", err)
	}
	stats.Spots = len(spots)

	jobs := make(chan job, c.Workers*2)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	record := func(ok bool, problems ...string) {
		mu.Lock()
		defer mu.Unlock()
		stats.Requests++
		if ok {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
		stats.Violations = append(stats.Violations, problems...)
	}

	for i := 0; i < c.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				r, err := client.rank(ctx, j.skill)
				if err != nil {
					record(false, fmt.Sprintf("%s #%d: %v", j.skill, j.n, err))
					continue
				}
				problems := verifyRanking(r, stats.Spots)
				for k := range problems {
					problems[k] = fmt.Sprintf("%s #%d: %s", j.skill, j.n, problems[k])
				}
				record(len(problems) == 0, problems...)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for n := 1; n <= c.Requests; n++ {
			for _, skill := range model.SkillLevels() {
				select {
				case <-ctx.Done():
					return
				case jobs <- job{skill: skill, n: n}:
				}
			}
		}
	}()
	wg.Wait()

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	if c.OutputFile != "" {
		if err := saveReport(c.OutputFile, stats); err != nil {
			log.Warn(ctx, "failed to save probe report", logger.Error(err))
		}
	}
	displayFinalStats(ctx, log, stats)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if len(stats.Violations) > 0 {
		return stats, fmt.Errorf("%w: %d problem(s), first: %s", ErrViolation, len(stats.Violations), stats.Violations[0])
	}
	return stats, nil
}

func saveReport(path string, stats *Stats) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), reportPermission)
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Requests) / stats.Duration.Seconds()
	}
	log.Info(ctx, "probe finished",
		logger.Int("spots", stats.Spots),
		logger.Int("requests", stats.Requests),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Int("violations", len(stats.Violations)),
		logger.Duration("duration", stats.Duration),
		logger.Float64("requestsPerSecond", perSecond),
	)
}

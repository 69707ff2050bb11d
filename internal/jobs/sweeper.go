package jobs

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/services"
)

// Sweeper periodically regenerates stored recommendations for every
// approved user so new signups and profile edits show up without
// waiting for an explicit refresh.
type Sweeper struct {
	log                   *logger.Logger
	recommendationService services.RecommendationService
	interval              time.Duration
	tracer                trace.Tracer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSweeper(log *logger.Logger, recommendationService services.RecommendationService, interval time.Duration) *Sweeper {
	return &Sweeper{
		log:                   log.With("job", "RecommendationSweeper"),
		recommendationService: recommendationService,
		interval:              interval,
		tracer:                otel.Tracer("campuslink/jobs"),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("sweep disabled (non-positive interval)")
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.log.Info("sweep loop started", "interval", s.interval.String())
		for {
			select {
			case <-ctx.Done():
				s.log.Info("sweep loop stopped")
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Sweeper) runOnce(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "recommendation.sweep")
	defer span.End()

	started := time.Now()
	summary, err := s.recommendationService.RegenerateAll(ctx)
	if err != nil {
		span.RecordError(err)
		s.log.Warn("sweep failed", "error", err)
		return
	}
	span.SetAttributes(
		attribute.Int("sweep.processed", summary.Processed),
		attribute.Int("sweep.failed", summary.Failed),
	)
	s.log.Info("sweep finished",
		"processed", summary.Processed,
		"failed", summary.Failed,
		"took", time.Since(started).String(),
	)
}

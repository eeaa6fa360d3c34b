package services

import (
	"context"
	"log"
	"os"
	"time"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// defaultSweepSchedule is used unless SWEEPER_SCHEDULE is set
const defaultSweepSchedule = "@every 5m"

// DisablementResolver force-resolves one disablement record
type DisablementResolver interface {
	ForceResolve(ctx context.Context, id uint) (*models.ClubDisablement, error)
}

// SweeperService periodically finds disablements past their deadline
// and forces resolution: remaining PENDIENTE members are degraded and
// the record ends in COMPLETADA. Sweep passes are idempotent —
// already-completed records are excluded by the query — and per-record
// failures are logged and skipped so one bad record cannot halt the
// sweep.
type SweeperService struct {
	disablementRepo repositories.DisablementRepository
	resolver        DisablementResolver
	cron            *cron.Cron
	schedule        string
}

// NewSweeperService creates a new sweeper service
func NewSweeperService(disablementRepo repositories.DisablementRepository, resolver DisablementResolver) *SweeperService {
	schedule := os.Getenv("SWEEPER_SCHEDULE")
	if schedule == "" {
		schedule = defaultSweepSchedule
	}
	return &SweeperService{
		disablementRepo: disablementRepo,
		resolver:        resolver,
		cron:            cron.New(),
		schedule:        schedule,
	}
}

// Start schedules the periodic sweep
func (s *SweeperService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.Sweep(context.Background())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("🚀 Expiry sweeper started (%s)", s.schedule)
	return nil
}

// Stop stops the scheduler, waiting for a running sweep to finish
func (s *SweeperService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Expiry sweeper stopped")
}

// Sweep runs one reconciliation pass and returns how many records
// were force-resolved.
func (s *SweeperService) Sweep(ctx context.Context) int {
	expired, err := s.disablementRepo.ListExpiredActive(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Sweep query error: %v", err)
		return 0
	}

	resolved := 0
	for i := range expired {
		record := &expired[i]
		if _, err := s.resolver.ForceResolve(ctx, record.ID); err != nil {
			log.Printf("❌ Sweep: force-resolve of disablement %d failed: %v", record.ID, err)
			continue
		}
		resolved++
	}

	if resolved > 0 {
		log.Printf("🧹 Sweep force-resolved %d expired disablement(s)", resolved)
	}
	return resolved
}

package sanitation

import (
	"time"

	"gnomad/pipeline/services"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

type (
	// SanitationService periodically drops finished ingestion
	// requests older than the retention period.
	SanitationService struct {
		Initialized      bool
		IngestionService *services.IngestionService
		Retention        time.Duration

		scheduler *gocron.Scheduler
		logger    *zap.Logger
	}
)

func NewSanitationService(ingestionService *services.IngestionService, retention time.Duration, logger *zap.Logger) *SanitationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	ss := &SanitationService{
		Initialized:      false,
		IngestionService: ingestionService,
		Retention:        retention,
		logger:           logger,
	}

	ss.Init()

	return ss
}

func (ss *SanitationService) Init() {
	// initialization if necessary
	if ss.Initialized {
		return
	}

	// setup cron job
	ss.scheduler = gocron.NewScheduler(time.UTC)

	// clean finished ingestion requests
	ss.scheduler.Every(1).Hour().Do(ss.Sanitize)

	// runs the scheduler on its own goroutine
	ss.scheduler.StartAsync()

	ss.Initialized = true
	ss.logger.Info("sanitation service initialized", zap.Duration("retention", ss.Retention))
}

// Sanitize evicts every finished ingestion request older than the
// retention period and returns the number evicted.
func (ss *SanitationService) Sanitize() int {
	cutoff := time.Now().UTC().Add(-ss.Retention)
	evicted := ss.IngestionService.EvictFinished(cutoff)

	ss.logger.Info("ingestion requests cleanup",
		zap.Time("cutoff", cutoff),
		zap.Int("evicted", evicted))

	return evicted
}

func (ss *SanitationService) Stop() {
	if ss.scheduler != nil {
		ss.scheduler.Stop()
	}
	ss.Initialized = false
}

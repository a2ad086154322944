package background

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"posmart/internal/analytics"
	"posmart/internal/repositories"
)

// JobScheduler manages background jobs for distributed environment
type JobScheduler struct {
	scheduler    gocron.Scheduler
	analyticsSvc *analytics.Service
	companyRepo  repositories.CompanyRepository
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(analyticsSvc *analytics.Service, companyRepo repositories.CompanyRepository) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		analyticsSvc: analyticsSvc,
		companyRepo:  companyRepo,
		jobs:         make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Dashboard metrics warm-up - every 5 minutes, matching the cache TTL so
	// terminals rarely hit a cold cache at the counter.
	metricsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshCompanyMetrics, context.Background()),
		gocron.WithName("dashboard-metrics-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create metrics refresh job: %v", err)
	} else {
		js.jobs["metrics-refresh"] = metricsJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// refreshCompanyMetrics recomputes and caches dashboard metrics for every
// company.
func (js *JobScheduler) refreshCompanyMetrics(ctx context.Context) error {
	log.Printf("Starting dashboard metrics refresh")

	companyIDs, err := js.companyRepo.ListIDs(ctx)
	if err != nil {
		log.Printf("Failed to list companies for metrics refresh: %v", err)
		return err
	}

	// Process companies in parallel with concurrency control
	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, id := range companyIDs {
		wg.Add(1)
		go func(companyID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if _, err := js.analyticsSvc.RefreshDashboardMetrics(ctx, companyID); err != nil {
				log.Printf("Failed to refresh metrics for company %s: %v", companyID.String(), err)
			}
		}(id)
	}

	wg.Wait()
	log.Printf("Completed dashboard metrics refresh for %d companies", len(companyIDs))
	return nil
}

package cron

import (
	"context"
	"sync"
	"time"

	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/pkg/xcontext"
)

// CronJob is a periodic job. RunNow tells whether the first run happens at
// start instead of at Next.
type CronJob interface {
	Name() string
	Do(context.Context)
	RunNow() bool
	Next() time.Time
}

type CronJobManager struct {
	mutex sync.Mutex
	wait  sync.WaitGroup
	jobs  map[CronJob]*time.Timer
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{jobs: make(map[CronJob]*time.Timer)}
}

func (m *CronJobManager) Register(job CronJob) {
	m.jobs[job] = nil
}

// Start schedules every registered job and blocks until Cancel is called.
func (m *CronJobManager) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Cron job manager started with %d jobs", len(m.jobs))

	m.wait.Add(len(m.jobs))
	for job := range m.jobs {
		if job.RunNow() {
			go m.run(ctx, job)
		} else {
			m.schedule(ctx, job)
		}
	}

	m.wait.Wait()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

func (m *CronJobManager) Cancel(ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for job, timer := range m.jobs {
		if timer != nil {
			timer.Stop()
		} else {
			xcontext.Logger(ctx).Warnf("Cancel %s before its first run", job.Name())
		}

		m.wait.Done()
	}

	m.jobs = make(map[CronJob]*time.Timer)
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	defer m.schedule(ctx, job)
	defer func() {
		if r := recover(); r != nil {
			xcontext.Logger(ctx).Errorf("%s panicked: %v", job.Name(), r)
		}
	}()

	start := time.Now()
	job.Do(ctx)

	elapsed := time.Since(start)
	common.PromHistograms[common.CronJobDurationSeconds].WithLabelValues(job.Name()).Observe(elapsed.Seconds())
	xcontext.Logger(ctx).Debugf("%s finished in %s", job.Name(), elapsed)
}

func (m *CronJobManager) schedule(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Cancelled jobs are not in the list anymore.
	if _, ok := m.jobs[job]; ok {
		m.jobs[job] = time.AfterFunc(time.Until(job.Next()), func() { m.run(ctx, job) })
	}
}

package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/wealthfund/backend/internal/domain/cron"
	"github.com/wealthfund/backend/pkg/prometheus"
	"github.com/wealthfund/backend/pkg/xcontext"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadDatabase()
	s.loadRepos()

	promServer := &http.Server{
		Addr:              xcontext.Configs(s.ctx).PrometheusServer.Address(),
		Handler:           prometheus.NewHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := promServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			xcontext.Logger(s.ctx).Errorf("Cannot serve metrics: %v", err)
		}
	}()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewExpirePendingDepositsCronJob(s.transactionRepo))
	cronJobManager.Register(cron.NewCleanupOTPCronJob(s.otpRepo))

	xcontext.Logger(s.ctx).Infof("Start cron jobs successfully")
	cronJobManager.Start(s.ctx)
	return nil
}

package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/wealthfund/backend/internal/domain/notifier"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/pkg/kafka"
	"github.com/wealthfund/backend/pkg/pubsub"
	"github.com/wealthfund/backend/pkg/xcontext"
)

func (s *srv) startNotifier(*cli.Context) error {
	s.loadDatabase()
	s.loadRepos()

	cfg := xcontext.Configs(s.ctx)
	eventNotifier := notifier.New(s.activityLogRepo)
	subscriber, err := kafka.NewSubscriber(
		cfg.Kafka.GroupID+"-notifier",
		[]string{cfg.Kafka.Addr},
		[]string{model.OTPTopic, model.LedgerTopic},
		func(_ context.Context, pack *pubsub.Pack, t time.Time) {
			// The consumer session context carries none of the configs.
			eventNotifier.Subscribe(s.ctx, pack, t)
		},
		xcontext.Logger(s.ctx),
	)
	if err != nil {
		return err
	}
	defer subscriber.Stop(s.ctx)

	xcontext.Logger(s.ctx).Infof("Start notifier successfully")
	subscriber.Subscribe(s.ctx)
	return nil
}

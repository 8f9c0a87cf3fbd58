package summary

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// StartSchedule runs the daily report on the configured cron schedule
// until ctx is cancelled. Each run covers the day the schedule fired on.
func (s *Service) StartSchedule(ctx context.Context) error {
	c := cron.New()

	_, err := c.AddFunc(s.conf.schedule.Get(ctx), func() {
		report, err := s.GenerateDailyReport(ctx, time.Now())
		if err != nil {
			s.log.WithError(err).Warn("failure generating daily report")
			return
		}

		s.log.
			WithField("day", report.Day.Format("2006-01-02")).
			WithField("transactions", report.TransactionCount).
			Info(s.FormatReport(ctx, report))
	})
	if err != nil {
		return err
	}

	c.Start()

	go func() {
		<-ctx.Done()
		c.Stop()
	}()

	return nil
}

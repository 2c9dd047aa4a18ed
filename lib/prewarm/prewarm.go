// Package prewarm keeps configured (year, semester) pairs warm in the
// lecture cache on a cron schedule, so interactive requests after a
// TTL rollover do not pay the full upstream pagination cost.
package prewarm

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/snuttools/snutt-proxy/lib/config"
	"github.com/snuttools/snutt-proxy/lib/lecturecache"
	"github.com/snuttools/snutt-proxy/lib/logging"
)

type Warmer struct {
	lectures *lecturecache.LectureCache
	targets  []config.PrewarmTarget
	schedule string
	cron     *cron.Cron
	logger   *logrus.Entry
}

func New(lectures *lecturecache.LectureCache, targets []config.PrewarmTarget, schedule string) *Warmer {
	return &Warmer{
		lectures: lectures,
		targets:  targets,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logging.GetLogger("prewarm"),
	}
}

// Start warms every target once, then keeps rewarming on the
// schedule. Warm fetches go through the normal cache path, so they
// coalesce with interactive requests for the same key.
func (w *Warmer) Start() error {
	go w.warm()
	if _, err := w.cron.AddFunc(w.schedule, w.warm); err != nil {
		return err
	}
	w.cron.Start()
	return nil
}

func (w *Warmer) Stop() {
	w.cron.Stop()
}

func (w *Warmer) warm() {
	for _, target := range w.targets {
		_, provenance, err := w.lectures.Get(target.Year, target.Semester)
		entry := w.logger.WithFields(logrus.Fields{
			"year":     target.Year,
			"semester": target.Semester,
		})
		if err != nil {
			entry.Error(err)
			continue
		}
		entry.WithField("cache", string(provenance)).Debug("Prewarmed target")
	}
}

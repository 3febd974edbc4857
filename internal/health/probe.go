package health

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Probe runs Readiness on a cron schedule so the health gauge stays current
// even when nobody polls /health/ready.
type Probe struct {
	cron *cron.Cron
}

func NewProbe(checker *Checker, schedule string) (*Probe, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		checker.Readiness(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("parse probe schedule %q: %w", schedule, err)
	}
	return &Probe{cron: c}, nil
}

func (p *Probe) Start() {
	p.cron.Start()
}

// Stop halts the schedule and waits for a running check to finish.
func (p *Probe) Stop() {
	<-p.cron.Stop().Done()
}

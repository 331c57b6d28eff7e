// internal/report/status.go
package report

import (
	"log"

	"github.com/tamzrod/i2c-coordinator/internal/coordinator"
	"github.com/tamzrod/i2c-coordinator/internal/node"
	"github.com/tamzrod/i2c-coordinator/internal/status"
)

// Status folds results into a health tracker and logs every transition.
// Only polls produce OK / Stale; any failed operation produces Error.
type Status struct {
	tr *status.Tracker
}

func NewStatus(tr *status.Tracker) *Status {
	return &Status{tr: tr}
}

func (s *Status) Report(res coordinator.NodeResult) {
	var (
		snap    status.Snapshot
		changed bool
	)

	switch {
	case res.Err != nil:
		snap, changed = s.tr.Observe(res.Addr, 0, res.Err)
	case res.Reading != nil:
		snap, changed = s.tr.Observe(res.Addr, res.Reading.SampleNumber, nil)
	default:
		return
	}

	if changed {
		logSnapshot(res.Addr, res.Name, snap)
	}
}

// Disable marks nodes as stopped, logging transitions.
func (s *Status) Disable(nodes []coordinator.NodeSpec) {
	for _, n := range nodes {
		if snap, changed := s.tr.Disable(n.Addr); changed {
			logSnapshot(n.Addr, n.Name, snap)
		}
	}
}

func logSnapshot(addr node.Addr, name string, snap status.Snapshot) {
	log.Printf(
		"status: node=%s name=%q health=%s code=%d seconds_in_error=%d sample=%d",
		addr, name, status.HealthName(snap.Health), snap.LastErrorCode, snap.SecondsInError, snap.LastSample,
	)
}

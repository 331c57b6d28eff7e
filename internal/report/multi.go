// internal/report/multi.go
package report

import "github.com/tamzrod/i2c-coordinator/internal/coordinator"

// Multi delivers each result to every reporter, in order.
type Multi []coordinator.Reporter

func (m Multi) Report(res coordinator.NodeResult) {
	for _, r := range m {
		if r != nil {
			r.Report(res)
		}
	}
}

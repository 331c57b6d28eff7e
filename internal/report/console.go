// internal/report/console.go
package report

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/tamzrod/i2c-coordinator/internal/coordinator"
	"github.com/tamzrod/i2c-coordinator/internal/node"
)

// TimeLayout is used for cycle headers.
const TimeLayout = "2006-01-02 15:04:05"

// Console prints one line per node result.
// A header with the cycle time opens every polling cycle.
type Console struct {
	mu   sync.Mutex
	w    io.Writer
	seen map[node.Addr]bool
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w, seen: make(map[node.Addr]bool)}
}

func (c *Console) Report(res coordinator.NodeResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder

	if res.Op == coordinator.OpPoll {
		// a node seen twice means a new cycle started
		if len(c.seen) == 0 || c.seen[res.Addr] {
			for k := range c.seen {
				delete(c.seen, k)
			}
			fmt.Fprintf(&b, "---- %s ----\n", res.At.Format(TimeLayout))
		}
		c.seen[res.Addr] = true
	}

	b.WriteString(Line(res))
	b.WriteByte('\n')

	if _, err := io.WriteString(c.w, b.String()); err != nil {
		log.Printf("report: console write failed: %v", err)
	}
}

// Line formats one result without a trailing newline.
func Line(res coordinator.NodeResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Node: %s", res.Addr)
	if res.Name != "" {
		fmt.Fprintf(&b, " (%s)", res.Name)
	}

	if res.Err != nil {
		fmt.Fprintf(&b, ", Op: %s, Error: %v", res.Op, res.Err)
		return b.String()
	}
	if res.Reading == nil {
		fmt.Fprintf(&b, ", Op: %s", res.Op)
		return b.String()
	}

	fmt.Fprintf(&b, ", Sample: %d", res.Reading.SampleNumber)
	switch v := res.Reading.Values.(type) {
	case coordinator.Climate:
		fmt.Fprintf(&b, ", Temperature: %.2f, Humidity: %.2f", v.Temperature, v.Humidity)
	case coordinator.Sound:
		fmt.Fprintf(&b, ", Leq: %.2f", v.Leq)
	}
	return b.String()
}

// Package headless drives a maze controller from a scripted key sequence,
// without a terminal or a window.
package headless

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amalg/go-labyrinth/internal/maze"
)

// Step holds a set of keys for a number of ticks.
type Step struct {
	Keys  []maze.Direction
	Ticks int
}

// ParseScript parses a comma separated list of KEYS:TICKS steps, for example
// "w:30,d:10,a+w:20". Keys are joined with '+'; "idle" or "-" holds nothing.
func ParseScript(s string) ([]Step, error) {
	var steps []Step
	for i, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		keys, count, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("step %d %q: expected KEYS:TICKS", i+1, field)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("step %d %q: tick count must be a positive integer", i+1, field)
		}

		step := Step{Ticks: n}
		keys = strings.TrimSpace(keys)
		if keys != "idle" && keys != "-" {
			for _, k := range strings.Split(keys, "+") {
				d, ok := maze.KeyDirection(strings.TrimSpace(k))
				if !ok {
					return nil, fmt.Errorf("step %d %q: unknown key %q", i+1, field, k)
				}
				step.Keys = append(step.Keys, d)
			}
		}
		steps = append(steps, step)
	}

	if len(steps) == 0 {
		return nil, fmt.Errorf("empty script")
	}
	return steps, nil
}

// TotalTicks is the length of the script in ticks.
func TotalTicks(steps []Step) int {
	n := 0
	for _, s := range steps {
		n += s.Ticks
	}
	return n
}

package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NotAvailable is the sentinel value for metrics absent from the plan output.
const NotAvailable = "N/A"

// Metrics holds the numeric fields extracted from textual plan output.
// Each field is either a numeric string or NotAvailable; extraction never
// fails, a missing or malformed field degrades to the sentinel.
type Metrics struct {
	// PlanningTime is the planner time in milliseconds, two decimals.
	PlanningTime string
	// ExecutionTime is the executor time in milliseconds, two decimals.
	ExecutionTime string
	// StartCost is the lower bound of the top node's cost range, verbatim.
	StartCost string
	// EndCost is the upper bound of the top node's cost range, verbatim.
	EndCost string
}

var (
	costPattern          = regexp.MustCompile(`cost=(\d+(?:\.\d+)?)\.\.(\d+(?:\.\d+)?)`)
	executionTimePattern = regexp.MustCompile(`Execution Time: (\d+(?:\.\d+)?) ms`)
	planningTimePattern  = regexp.MustCompile(`Planning Time: (\d+(?:\.\d+)?) ms`)
)

// PlanText joins plan output lines into the canonical plan text.
func PlanText(lines []string) string {
	return strings.Join(lines, "\n")
}

// Extract parses plan output lines into Metrics.
// The cost range is taken from the first cost=A..B occurrence, which belongs
// to the top plan node; nested node costs are ignored.
func Extract(lines []string) Metrics {
	text := PlanText(lines)

	metrics := Metrics{
		PlanningTime:  extractDuration(planningTimePattern, text),
		ExecutionTime: extractDuration(executionTimePattern, text),
		StartCost:     NotAvailable,
		EndCost:       NotAvailable,
	}

	if m := costPattern.FindStringSubmatch(text); m != nil {
		metrics.StartCost = m[1]
		metrics.EndCost = m[2]
	}

	return metrics
}

// extractDuration finds a "<label>: <n> ms" match and reformats the value to
// exactly two decimal places.
func extractDuration(pattern *regexp.Regexp, text string) string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return NotAvailable
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", v)
}

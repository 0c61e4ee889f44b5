package config

import (
	"strings"

	"github.com/fatih/color"
)

var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Pink   = color.New(color.FgMagenta).SprintFunc()

	SeverityMap = map[string]int{
		"critical": 5,
		"high":     4,
		"medium":   3,
		"low":      2,
		"tips":     1,
	}
)

// Rank returns the comparable severity rank of a level string.
// Unknown levels rank below every known one.
func Rank(level string) int {
	return SeverityMap[strings.ToLower(strings.TrimSpace(level))]
}

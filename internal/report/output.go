package report

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/cvegate/cvegate/config"
	"github.com/cvegate/cvegate/internal/scan"
)

// Resolve prints the scan result to the terminal: a colored severity
// summary followed by a table of every vulnerable artifact.
func Resolve(res *scan.Result) error {

	critical, high, medium, low := 0, 0, 0, 0
	vulnerable := 0

	for _, out := range res.Outcomes {
		if len(out.Records) == 0 {
			continue
		}
		vulnerable += 1

		for _, r := range out.Records {
			switch strings.ToLower(r.Level) {
			case "critical":
				critical += 1
			case "high":
				high += 1
			case "medium":
				medium += 1
			case "low":
				low += 1
			default:
				// ignore
			}
		}
	}

	fmt.Printf("\nScanned %s artifacts, %s vulnerable | "+
		"Critical: %s High: %s Medium: %s Low: %s\n\n",
		config.Yellow(len(res.Outcomes)),
		config.Yellow(vulnerable),
		config.Red(critical),
		config.Pink(high),
		config.Yellow(medium),
		config.Green(low))

	if vulnerable == 0 {
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)

	table.SetHeader([]string{"ID", "Artifact", "CVEID", "Score", "Level", "Title"})
	table.SetRowLine(true)
	table.SetAutoMergeCellsByColumnIndex([]int{0, 1})

	i := 0
	for _, out := range sortBySeverity(res.Outcomes) {
		if len(out.Records) == 0 {
			continue
		}
		i += 1

		for _, r := range out.Records {
			title := r.Title
			if len(title) > 200 {
				title = title[:200] + " ..."
			}

			table.Append([]string{
				strconv.Itoa(i), out.Artifact.ID(),
				r.CVEID, fmt.Sprintf("%.1f", r.Score),
				judgeSeverity(r.Level), title,
			})
		}
	}

	table.Render()

	return nil
}

// sortBySeverity orders vulnerable outcomes by their highest severity,
// most severe first.
func sortBySeverity(outcomes []scan.Outcome) []scan.Outcome {
	sorted := make([]scan.Outcome, len(outcomes))
	copy(sorted, outcomes)

	top := func(o scan.Outcome) int {
		t := 0
		for _, r := range o.Records {
			if rank := config.Rank(r.Level); rank > t {
				t = rank
			}
		}
		return t
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return top(sorted[i]) > top(sorted[j])
	})

	return sorted
}

func judgeSeverity(level string) string {
	switch strings.ToLower(level) {
	case "critical":
		return config.Red("critical")
	case "high":
		return config.Pink("high")
	case "medium":
		return config.Yellow("medium")
	case "low":
		return config.Green("low")
	}

	return level
}

package scan

import (
	"strings"

	version2 "github.com/hashicorp/go-version"
	rpmversion "github.com/knqyf263/go-rpm-version"

	"github.com/cvegate/cvegate/config"
	"github.com/cvegate/cvegate/pkg/vulndb"
)

// IsFatal decides whether a vulnerable outcome aborts the run. The rule
// is a per-run severity threshold: the run fails when the highest
// severity among the matched records ranks at or above Settings.FailOn.
// The same rule applies to fresh scans and cache hits.
func (ec *ExecutionContext) IsFatal(v *VulnError) bool {
	threshold := config.Rank(ec.Settings.FailOn)

	top := 0
	for _, r := range v.Records {
		if rank := config.Rank(r.Level); rank > top {
			top = rank
		}
	}

	return top >= threshold
}

// matchRanges returns the records whose vulnerable version range covers
// the current version. Versions are compared with go-version first and
// rpm-version as a fallback for non-semver schemes.
func matchRanges(ranges []vulndb.Range, current string) []vulndb.Record {

	matched := []vulndb.Record{}

	for _, row := range ranges {

		if row.MaxVersion == "*" {
			continue
		}

		ok, err := inRange(row, current)
		if err != nil {
			ok = inRpmRange(row, current)
		}

		if ok {
			matched = append(matched, vulndb.Record{
				CVEID:       row.CVEID,
				Title:       row.Title,
				Level:       row.Level,
				Score:       row.Score,
				Component:   row.Component,
				Version:     current,
				PublishDate: row.PublishDate,
			})
		}
	}

	return matched
}

func inRange(row vulndb.Range, cv string) (bool, error) {

	currentVersion, err := version2.NewVersion(cv)
	if err != nil {
		return false, err
	}

	maxStr, maxInclusive := splitInclusive(row.MaxVersion)
	minStr, minInclusive := splitInclusive(row.MinVersion)

	vulnMax, err := version2.NewVersion(maxStr)
	if err != nil {
		return false, err
	}

	belowMax := currentVersion.Compare(vulnMax) < 0
	if maxInclusive {
		belowMax = currentVersion.Compare(vulnMax) <= 0
	}

	if minStr == "" {
		return belowMax, nil
	}

	vulnMin, err := version2.NewVersion(minStr)
	if err != nil {
		return false, err
	}

	aboveMin := currentVersion.Compare(vulnMin) > 0
	if minInclusive {
		aboveMin = currentVersion.Compare(vulnMin) >= 0
	}

	return belowMax && aboveMin, nil
}

func inRpmRange(row vulndb.Range, cv string) bool {

	currentVersion := rpmversion.NewVersion(cv)

	maxStr, maxInclusive := splitInclusive(row.MaxVersion)
	minStr, minInclusive := splitInclusive(row.MinVersion)

	vulnMax := rpmversion.NewVersion(maxStr)

	belowMax := currentVersion.Compare(vulnMax) < 0
	if maxInclusive {
		belowMax = currentVersion.Compare(vulnMax) <= 0
	}

	if minStr == "" {
		return belowMax
	}

	vulnMin := rpmversion.NewVersion(minStr)

	aboveMin := currentVersion.Compare(vulnMin) > 0
	if minInclusive {
		aboveMin = currentVersion.Compare(vulnMin) >= 0
	}

	return belowMax && aboveMin
}

// splitInclusive handles the feed's "=1.2.3" form marking an inclusive
// range boundary.
func splitInclusive(v string) (string, bool) {
	if strings.HasPrefix(v, "=") {
		return v[1:], true
	}
	return v, false
}

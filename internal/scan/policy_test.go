package scan

import (
	"io"
	"log"
	"reflect"
	"testing"

	"github.com/cvegate/cvegate/config"
	"github.com/cvegate/cvegate/pkg/vulndb"
)

func TestIsFatal(t *testing.T) {
	type args struct {
		failOn string
		levels []string
	}

	tests := []struct {
		name string
		args args
		want bool
	}{
		{
			name: "criticalAboveHigh",
			args: args{failOn: "high", levels: []string{"critical"}},
			want: true,
		},
		{
			name: "atThreshold",
			args: args{failOn: "high", levels: []string{"high"}},
			want: true,
		},
		{
			name: "belowThreshold",
			args: args{failOn: "high", levels: []string{"low", "medium"}},
			want: false,
		},
		{
			name: "mixedTopCounts",
			args: args{failOn: "medium", levels: []string{"low", "high"}},
			want: true,
		},
		{
			name: "unknownLevel",
			args: args{failOn: "high", levels: []string{"unrated"}},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := config.Defaults()
			settings.FailOn = tt.args.failOn

			ec := NewExecutionContext(newFakeDB(), settings, log.New(io.Discard, "", 0))

			records := []vulndb.Record{}
			for _, l := range tt.args.levels {
				records = append(records, vulndb.Record{CVEID: "CVE-0000-0000", Level: l})
			}

			verr := &VulnError{ID: "a:1.0", Records: records}
			if got := ec.IsFatal(verr); got != tt.want {
				t.Errorf("IsFatal() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchRanges(t *testing.T) {
	type args struct {
		ranges  []vulndb.Range
		current string
	}

	tests := []struct {
		name string
		args args
		want []string
	}{
		{
			name: "inRange",
			args: args{
				ranges:  []vulndb.Range{{CVEID: "CVE-2020-0001", MaxVersion: "2.5", MinVersion: "2.0"}},
				current: "2.4",
			},
			want: []string{"CVE-2020-0001"},
		},
		{
			name: "aboveMax",
			args: args{
				ranges:  []vulndb.Range{{CVEID: "CVE-2020-0001", MaxVersion: "2.5", MinVersion: "2.0"}},
				current: "2.6",
			},
			want: []string{},
		},
		{
			name: "inclusiveMax",
			args: args{
				ranges:  []vulndb.Range{{CVEID: "CVE-2020-0001", MaxVersion: "=2.5", MinVersion: "2.0"}},
				current: "2.5",
			},
			want: []string{"CVE-2020-0001"},
		},
		{
			name: "exclusiveMin",
			args: args{
				ranges:  []vulndb.Range{{CVEID: "CVE-2020-0001", MaxVersion: "2.5", MinVersion: "2.0"}},
				current: "2.0",
			},
			want: []string{},
		},
		{
			name: "wildcardSkipped",
			args: args{
				ranges:  []vulndb.Range{{CVEID: "CVE-2020-0001", MaxVersion: "*"}},
				current: "2.4",
			},
			want: []string{},
		},
		{
			name: "rpmStyleFallback",
			args: args{
				ranges:  []vulndb.Range{{CVEID: "CVE-2021-0002", MaxVersion: "1:1.2.8-2.el7", MinVersion: ""}},
				current: "1:1.2.8-1.el7",
			},
			want: []string{"CVE-2021-0002"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchRanges(tt.args.ranges, tt.args.current)

			ids := []string{}
			for _, r := range got {
				ids = append(ids, r.CVEID)
			}

			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("matchRanges() got = %v, want %v", ids, tt.want)
			}
		})
	}
}

package report

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cvegate/cvegate/config"
	"github.com/cvegate/cvegate/internal/scan"
)

type jsonOutcome struct {
	Artifact string   `json:"artifact"`
	CVEs     []string `json:"cves"`
	Cached   bool     `json:"cached,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type jsonReport struct {
	Verdict  string        `json:"verdict"`
	Failure  string        `json:"failure,omitempty"`
	Outcomes []jsonOutcome `json:"outcomes"`
}

func exists(path string) bool {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsExist(err) {
			return true
		}

		return false
	}
	return true
}

func getOutputFile(outfile string) (string, error) {
	if outfile == "output" {
		pwd, _ := os.Getwd()
		folder := filepath.Join(pwd, "output")
		if !exists(folder) {
			err := os.MkdirAll(folder, os.FileMode(0755))
			if err != nil {
				return "", err
			}
		}
		nowStamp := time.Now().Format("2006-01-02")
		return filepath.Join(folder, fmt.Sprintf("%s.json", nowStamp)), nil
	}

	folder := filepath.Dir(outfile)
	if !exists(folder) {
		err := os.MkdirAll(folder, os.FileMode(0755))
		if err != nil {
			return "", err
		}
	}

	return outfile, nil
}

// ToJson writes the scan result to the configured output location.
func ToJson(outfile string, res *scan.Result) error {
	filename, err := getOutputFile(outfile)
	if err != nil {
		return err
	}

	rep := jsonReport{
		Verdict:  string(res.Verdict),
		Outcomes: []jsonOutcome{},
	}
	if res.Failure != nil {
		rep.Failure = res.Failure.LogMessage()
	}

	for _, out := range res.Outcomes {
		jo := jsonOutcome{
			Artifact: out.Artifact.ID(),
			CVEs:     []string{},
			Cached:   out.Cached,
		}
		for _, r := range out.Records {
			jo.CVEs = append(jo.CVEs, r.CVEID)
		}
		if out.Err != nil {
			jo.Error = out.Err.Error()
		}
		rep.Outcomes = append(rep.Outcomes, jo)
	}

	data, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	err = os.WriteFile(filename, data, 0644)
	if err != nil {
		return err
	}

	fmt.Printf("\n")
	log.Printf("Output file is saved in: %s", config.Yellow(filename))

	return nil
}

/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/K9MKE/archivewrapped/internal/analysis"
)

type TopDaysAnalyzer struct {
	Config AnalyserConfig
}

func (t TopDaysAnalyzer) SetConfig(config AnalyserConfig) TopDaysAnalyzer {
	t.Config = config
	return t
}

func (t TopDaysAnalyzer) GetName() string {
	return "Biggest listening days"
}

func (t TopDaysAnalyzer) GetResults(report *analysis.Report) (Analysis, error) {
	out := Analysis{results: [][]string{{"Date", "Hours", "Sessions"}}}
	for _, day := range report.TopDays {
		out.results = append(out.results, []string{
			day.Date,
			strconv.FormatFloat(day.TotalHours, 'f', 1, 64),
			strconv.Itoa(day.SessionCount),
		})
	}
	out.results = limitRows(out.results, t.Config.NumToReturn)

	out.summary = fmt.Sprintf("Listening period spanned %d days\n", report.Summary.ListeningPeriodDays)
	return out, nil
}

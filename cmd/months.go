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

type MonthlyAnalyzer struct{}

func (m MonthlyAnalyzer) GetName() string {
	return "Listening by month"
}

func (m MonthlyAnalyzer) GetResults(report *analysis.Report) (Analysis, error) {
	out := Analysis{results: [][]string{{"Month", "Hours", "Sessions"}}}
	var best analysis.MonthStat
	for _, month := range report.ByMonth {
		out.results = append(out.results, []string{
			month.Month,
			strconv.FormatFloat(month.TotalHours, 'f', 1, 64),
			strconv.Itoa(month.SessionCount),
		})
		if month.TotalHours > best.TotalHours {
			best = month
		}
	}

	if best.Month != "" {
		out.summary = fmt.Sprintf("Biggest month: %s\n", best.Month)
	}
	return out, nil
}

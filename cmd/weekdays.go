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

type WeekdayAnalyzer struct{}

func (w WeekdayAnalyzer) GetName() string {
	return "Listening by day of week"
}

func (w WeekdayAnalyzer) GetResults(report *analysis.Report) (Analysis, error) {
	out := Analysis{results: [][]string{{"Day", "Minutes", "Sessions"}}}
	var best analysis.WeekdayStat
	for _, day := range report.ByDayOfWeek {
		out.results = append(out.results, []string{
			day.Day,
			strconv.FormatFloat(day.TotalMinutes, 'f', 1, 64),
			strconv.Itoa(day.SessionCount),
		})
		if day.TotalMinutes > best.TotalMinutes {
			best = day
		}
	}

	if best.Day != "" {
		out.summary = fmt.Sprintf("Busiest day of the week: %s\n", best.Day)
	}
	return out, nil
}

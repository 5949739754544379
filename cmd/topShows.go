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

type TopShowsAnalyzer struct {
	Config AnalyserConfig
}

func (t TopShowsAnalyzer) SetConfig(config AnalyserConfig) TopShowsAnalyzer {
	t.Config = config
	return t
}

func (t TopShowsAnalyzer) GetName() string {
	return "Top shows"
}

func (t TopShowsAnalyzer) GetResults(report *analysis.Report) (Analysis, error) {
	out := Analysis{results: [][]string{{"Artist", "Date", "Venue", "Location", "Hours", "Listens"}}}
	for _, show := range report.TopShows {
		out.results = append(out.results, []string{
			show.Artist,
			show.Date,
			show.Venue,
			show.Location,
			strconv.FormatFloat(show.TotalHours, 'f', 1, 64),
			strconv.Itoa(show.ListenCount),
		})
	}
	out.results = limitRows(out.results, t.Config.NumToReturn)

	out.summary = fmt.Sprintf("Listened to %d different shows\n", report.Summary.UniqueShows)
	return out, nil
}

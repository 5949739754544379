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

type TopArtistsAnalyzer struct {
	Config AnalyserConfig
}

func (t TopArtistsAnalyzer) SetConfig(config AnalyserConfig) TopArtistsAnalyzer {
	t.Config = config
	return t
}

func (t TopArtistsAnalyzer) GetName() string {
	return "Top artists"
}

func (t TopArtistsAnalyzer) GetResults(report *analysis.Report) (Analysis, error) {
	out := Analysis{results: [][]string{{"Artist", "Hours", "Sessions"}}}
	var totalSessions int
	for _, artist := range report.TopArtists {
		out.results = append(out.results, []string{
			artist.Name,
			strconv.FormatFloat(artist.TotalHours, 'f', 1, 64),
			strconv.Itoa(artist.SessionCount),
		})
		totalSessions += artist.SessionCount
	}
	out.results = limitRows(out.results, t.Config.NumToReturn)

	out.summary = fmt.Sprintf("Found %d artists and %d sessions in %d\n",
		report.Summary.UniqueArtists, totalSessions, report.Summary.FirstListen.Year())
	return out, nil
}

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

	"github.com/K9MKE/archivewrapped/internal/analysis"
)

type FavoritesAnalyzer struct {
	Config AnalyserConfig
}

func (f FavoritesAnalyzer) SetConfig(config AnalyserConfig) FavoritesAnalyzer {
	f.Config = config
	return f
}

func (f FavoritesAnalyzer) GetName() string {
	return "Favorites"
}

func (f FavoritesAnalyzer) GetResults(report *analysis.Report) (Analysis, error) {
	out := Analysis{results: [][]string{{"Favorite", "Type", "Added"}}}
	const dateFormat = "2006-01-02"
	for _, fav := range report.FavoriteArtists {
		out.results = append(out.results, []string{
			fav.Identifier, fav.Type, fav.DateAdded.Format(dateFormat),
		})
	}
	for _, fav := range report.FavoriteRecordings {
		out.results = append(out.results, []string{
			fav.Identifier, fav.Type, fav.DateAdded.Format(dateFormat),
		})
	}
	out.results = limitRows(out.results, f.Config.NumToReturn)

	out.summary = fmt.Sprintf("Favorited %d artists and %d recordings\n",
		report.Summary.FavoriteArtistCount, report.Summary.FavoriteRecordingCnt)
	return out, nil
}

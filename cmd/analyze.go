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
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/K9MKE/archivewrapped/internal/analysis"
	"github.com/K9MKE/archivewrapped/internal/loader"
)

var analyzeTopN int

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Prints the full listening report",
	Long: `Loads the export from data_dir, analyzes the target year, and prints
the stats summary followed by every report section.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := printWrapped(os.Stdout, viper.GetString("data_dir"), viper.GetInt("year"), analyzeTopN)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVarP(&analyzeTopN, "number", "n", 10, "number of results per section")
}

// reportAnalysers returns the report sections in presentation order.
func reportAnalysers(numToReturn int) []Analyser {
	config := AnalyserConfig{NumToReturn: numToReturn}
	return []Analyser{
		TopArtistsAnalyzer{}.SetConfig(config),
		TopShowsAnalyzer{}.SetConfig(config),
		TopDaysAnalyzer{}.SetConfig(config),
		WeekdayAnalyzer{},
		MonthlyAnalyzer{},
		FavoritesAnalyzer{}.SetConfig(config),
		InsightsAnalyzer{},
	}
}

func printWrapped(out io.Writer, dataDir string, year int, topN int) error {
	st, _, err := loader.LoadIntoStore(dataDir, year)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := analysis.GenerateReport(st.DB(), topN)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Archive.org Wrapped %d\n", year)
	fmt.Fprintf(out, "Total listening time: %.1f hours (%.1f days)\n",
		report.Summary.TotalHours, report.Summary.TotalDays)
	fmt.Fprintf(out, "Sessions: %d  Artists: %d  Shows: %d\n",
		report.Summary.TotalSessions, report.Summary.UniqueArtists, report.Summary.UniqueShows)
	fmt.Fprintf(out, "First listen: %s  Last listen: %s\n\n",
		report.Summary.FirstListen.Format("2006-01-02"), report.Summary.LastListen.Format("2006-01-02"))

	for _, analyser := range reportAnalysers(topN) {
		section, err := analyser.GetResults(report)
		if err != nil {
			return fmt.Errorf("getting results for %s: %w", analyser.GetName(), err)
		}
		fmt.Fprintf(out, "## %s\n%s\n", analyser.GetName(), section)
	}

	return nil
}

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

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Prints listening personality insights",
	Long:  `Evaluates the listening pattern heuristics and prints the ones that apply.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := printInsights(os.Stdout, viper.GetString("data_dir"), viper.GetInt("year"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func printInsights(out io.Writer, dataDir string, year int) error {
	st, _, err := loader.LoadIntoStore(dataDir, year)
	if err != nil {
		return err
	}
	defer st.Close()

	insights, err := analysis.Insights(st.DB())
	if err != nil {
		return err
	}

	if len(insights) == 0 {
		fmt.Fprintln(out, "No insights for this year.")
		return nil
	}
	fmt.Fprintf(out, "Your %d listening insights:\n", year)
	for _, insight := range insights {
		fmt.Fprintf(out, "- %s\n", insight)
	}
	return nil
}

type InsightsAnalyzer struct{}

func (i InsightsAnalyzer) GetName() string {
	return "Insights"
}

func (i InsightsAnalyzer) GetResults(report *analysis.Report) (Analysis, error) {
	out := Analysis{results: [][]string{{"Insight"}}}
	for _, insight := range report.Insights {
		out.results = append(out.results, []string{insight})
	}
	out.summary = fmt.Sprintf("Matched %d insights\n", len(report.Insights))
	return out, nil
}

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
	"html"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/K9MKE/archivewrapped/internal/analysis"
	"github.com/K9MKE/archivewrapped/internal/loader"
)

type SendEmailConfig struct {
	DataDir string
	Year    int
	TopN    int
	From    string
	To      string
	DryRun  bool
	ApiKey  string
}

var emailCmd = &cobra.Command{
	Use:   "email <address>",
	Short: "Emails the listening report",
	Long:  `Renders the full report as HTML and sends it to the specified address.`,
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := SendEmailConfig{
			DataDir: viper.GetString("data_dir"),
			Year:    viper.GetInt("year"),
			TopN:    emailTopN,
			From:    viper.GetString("from"),
			To:      args[0],
			DryRun:  viper.GetBool("dryRun"),
			ApiKey:  viper.GetString("sendgrid_api_key"),
		}
		err := sendEmail(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var emailTopN int

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	emailCmd.Flags().IntVar(&emailTopN, "number", 10, "number of results per section")
}

func sendEmail(config SendEmailConfig) error {
	st, _, err := loader.LoadIntoStore(config.DataDir, config.Year)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := analysis.GenerateReport(st.DB(), config.TopN)
	if err != nil {
		return err
	}

	subject, out, err := generateEmailContent(config, report, reportAnalysers(config.TopN))
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, out)
		return nil
	}

	if config.ApiKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("archivewrapped", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, out, out)
	client := sendgrid.NewSendClient(config.ApiKey)
	_, err = client.Send(message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}

	return nil
}

func generateEmailContent(config SendEmailConfig, report *analysis.Report, actions []Analyser) (subject string, body string, err error) {
	out := `
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`
	out += fmt.Sprintf("<h1>Archive.org Wrapped %d</h1>\n", config.Year)
	out += fmt.Sprintf("<div>Total listening time: %.1f hours across %d sessions.</div>\n",
		report.Summary.TotalHours, report.Summary.TotalSessions)

	for _, action := range actions {
		out += `
		<div>
`
		out += fmt.Sprintf("<h2>%s</h2>\n", action.GetName())
		analysis, err := action.GetResults(report)
		if err != nil {
			return "", "", fmt.Errorf("getting results for %s: %w", action.GetName(), err)
		}

		if len(analysis.results) <= 1 {
			out += "<div>Nothing to report.</div>\n"
		} else {
			out += `
			<table>
				<thead>
					<tr>
`
			for _, header := range analysis.results[0] {
				out += fmt.Sprintf("<th>%s</th>", html.EscapeString(header))
			}
			out += `				</tr>
			</thead>`

			for _, row := range analysis.results[1:] {
				out += "<tr>\n"
				for _, column := range row {
					out += fmt.Sprintf("<td>%s</td>\n", html.EscapeString(column))
				}
				out += "</tr>\n"

			}
			out += `
				</tbody>
			</table>
`
		}
		out += fmt.Sprintf(`<div>%s</div>
		</div>`, html.EscapeString(analysis.summary))
	}

	subject = fmt.Sprintf("Your %d Archive.org Wrapped", config.Year)

	return subject, out, nil
}

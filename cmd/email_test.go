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
	"strings"
	"testing"

	"github.com/K9MKE/archivewrapped/internal/analysis"
	"github.com/K9MKE/archivewrapped/internal/loader"
)

func testReport(t *testing.T) *analysis.Report {
	t.Helper()
	dir := writeExport(t)

	st, _, err := loader.LoadIntoStore(dir, 2025)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	report, err := analysis.GenerateReport(st.DB(), 10)
	if err != nil {
		t.Fatal(err)
	}
	return report
}

func TestGenerateEmailContent(t *testing.T) {
	report := testReport(t)

	config := SendEmailConfig{Year: 2025, To: "listener@example.com"}
	subject, body, err := generateEmailContent(config, report, reportAnalysers(10))
	if err != nil {
		t.Fatalf("generateEmailContent: %v", err)
	}

	if subject != "Your 2025 Archive.org Wrapped" {
		t.Errorf("unexpected subject: %q", subject)
	}
	for _, want := range []string{
		"<h2>Top artists</h2>",
		"<h2>Insights</h2>",
		"<td>Grateful Dead</td>",
		"<td>Barton Hall</td>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("email body missing %q", want)
		}
	}
}

func TestGenerateEmailContentEscapesHtml(t *testing.T) {
	report := testReport(t)
	report.TopArtists[0].Name = "Bob's <Band>"

	_, body, err := generateEmailContent(SendEmailConfig{Year: 2025}, report, reportAnalysers(10))
	if err != nil {
		t.Fatalf("generateEmailContent: %v", err)
	}

	if strings.Contains(body, "<Band>") {
		t.Errorf("artist name was not escaped")
	}
	if !strings.Contains(body, "Bob&#39;s &lt;Band&gt;") {
		t.Errorf("expected escaped artist name in body")
	}
}

func TestSendEmailRequiresApiKey(t *testing.T) {
	dir := writeExport(t)

	err := sendEmail(SendEmailConfig{
		DataDir: dir,
		Year:    2025,
		TopN:    10,
		From:    "wrapped@example.com",
		To:      "listener@example.com",
	})
	if err == nil {
		t.Fatalf("sendEmail should have errored without an API key")
	}
	if !strings.Contains(err.Error(), "sendgrid_api_key") {
		t.Errorf("error should mention the missing key, got: %v", err)
	}
}

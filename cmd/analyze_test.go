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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/K9MKE/archivewrapped/internal/loader"
)

func writeExport(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	summary := "sessionIdentifier\trecordingIdentifier\tartistName\tshowDate\tvenue\tlocation\tlistenedOn\tduration\tpercentListenedTo\n" +
		"s1\tgd1977-05-08\tGrateful Dead\t1977-05-08\tBarton Hall\tIthaca, NY\t2025-03-01T19:00:00\t5400\t0.9\n" +
		"s2\tgd1977-05-08\tGrateful Dead\t1977-05-08\tBarton Hall\tIthaca, NY\t2025-03-02T19:30:00\t5400\t1.0\n" +
		"s3\tph1997-11-17\tPhish\t1997-11-17\tMcNichols Arena\tDenver, CO\t2025-06-10T08:15:00\t7300\t0.5\n"
	favorites := "favoriteIdentifier\tfavoriteType\tdateAdded\n" +
		"Grateful Dead\tartist\t2025-01-15\n" +
		"gd1977-05-08\trecording\t2025-03-02\n"
	detailed := `{"artists": [{"name": "Grateful Dead"}, {"name": "Phish"}]}`

	for name, content := range map[string]string{
		loader.SummaryFile:   summary,
		loader.FavoritesFile: favorites,
		loader.DetailedFile:  detailed,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestPrintWrapped(t *testing.T) {
	dir := writeExport(t)

	out := new(bytes.Buffer)
	if err := printWrapped(out, dir, 2025, 10); err != nil {
		t.Fatalf("printWrapped: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Archive.org Wrapped 2025",
		"Sessions: 3  Artists: 2  Shows: 2",
		"## Top artists",
		"Grateful Dead",
		"## Top shows",
		"Barton Hall",
		"## Listening by day of week",
		"## Favorites",
		"## Insights",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("printWrapped output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintWrappedMissingExport(t *testing.T) {
	err := printWrapped(new(bytes.Buffer), t.TempDir(), 2025, 10)
	if err == nil {
		t.Fatalf("printWrapped should have errored with an empty data dir")
	}
	var missing *loader.MissingFileError
	if !errors.As(err, &missing) {
		t.Errorf("expected MissingFileError, got %v", err)
	}
}

func TestPrintInsights(t *testing.T) {
	dir := writeExport(t)

	out := new(bytes.Buffer)
	if err := printInsights(out, dir, 2025); err != nil {
		t.Fatalf("printInsights: %v", err)
	}

	if !strings.Contains(out.String(), "Your 2025 listening insights:") {
		t.Errorf("missing insights header:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "- ") {
		t.Errorf("expected at least one insight bullet:\n%s", out.String())
	}
}

func TestPrintWrappedRespectsYearFilter(t *testing.T) {
	dir := writeExport(t)

	err := printWrapped(new(bytes.Buffer), dir, 2024, 10)
	if err == nil {
		t.Fatalf("printWrapped should have errored for a year with no sessions")
	}
}

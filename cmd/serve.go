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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/K9MKE/archivewrapped/internal/artwork"
	"github.com/K9MKE/archivewrapped/internal/server"
)

var servePort int
var serveOutputDir string
var enableArtwork bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the upload-and-render web service",
	Long: `Serves an upload page. Posted exports are analyzed and rendered into
shareable slides for the target year.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := runServer()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))

	serveCmd.Flags().StringVar(&serveOutputDir, "output_dir", "./slides", "Directory to write slides to")
	viper.BindPFlag("output_dir", serveCmd.Flags().Lookup("output_dir"))

	serveCmd.Flags().BoolVar(&enableArtwork, "enable_artwork", false, "Fetch show artwork from archive.org")
	viper.BindPFlag("enable_artwork", serveCmd.Flags().Lookup("enable_artwork"))
}

func runServer() error {
	server.InitLogging()

	art, err := artwork.New(viper.GetBool("enable_artwork"))
	if err != nil {
		return fmt.Errorf("runServer: %w", err)
	}

	srv := server.New(server.Config{
		Addr:      fmt.Sprintf(":%d", viper.GetInt("port")),
		OutputDir: viper.GetString("output_dir"),
		Year:      viper.GetInt("year"),
		Artwork:   art,
	})
	return srv.Run()
}

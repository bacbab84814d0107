package cli

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clinisearch/go-context-search/api"
	"github.com/clinisearch/go-context-search/config"
	"github.com/clinisearch/go-context-search/internal/engine"
	"github.com/clinisearch/go-context-search/internal/nlp"
)

var (
	servePort   string
	dataDir     string
	weightsFile string
	noAnnotate  bool
)

// serveCmd starts the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the search server",
	Long: `Start the HTTP server. Indexes persisted under the data directory are
loaded on startup. The context weight table is read from the weights file
if given, otherwise from CONTEXT_SEARCH_* environment variables and
built-in defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		weights, err := config.LoadContextWeights(weightsFile)
		if err != nil {
			return fmt.Errorf("failed to load context weights: %w", err)
		}

		var annotator nlp.Annotator = nlp.NewLexiconAnnotator()
		if noAnnotate {
			annotator = nlp.PassthroughAnnotator{}
		}

		logrus.WithFields(logrus.Fields{
			"data_dir": dataDir,
			"port":     servePort,
		}).Info("Starting context-search server")

		searchEngine := engine.NewEngine(dataDir, weights, annotator)

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.New()
		router.Use(gin.Recovery())
		api.SetupRoutes(router, searchEngine)

		if err := router.Run(":" + servePort); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "port to run the server on")
	serveCmd.Flags().StringVar(&dataDir, "data-dir", "./search_data", "directory to store index data")
	serveCmd.Flags().StringVar(&weightsFile, "weights", "", "path to a context weights file (YAML, JSON, or TOML)")
	serveCmd.Flags().BoolVar(&noAnnotate, "no-annotate", false, "index documents without context annotations")
	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"faexport/pkg/config"
	"faexport/pkg/filmaffinity"
	"faexport/pkg/logger"
	"faexport/pkg/pdf"
	"faexport/pkg/scraper"
	"faexport/pkg/storage"
	"faexport/pkg/ui"
)

var (
	// Export command flags
	outputDir      string
	recordsPerPage int
	maxPages       int
	baseURL        string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [user-id]",
	Short: "Export a user's rating history to PDF",
	Long: `Export all rated titles from a FilmAffinity user's public rating
history into a single PDF file, a fixed number of records per page.

When no user id is given, the command prompts for one on standard input.`,
	Example: `  # Export with the user id as an argument
  faexport export 123456

  # Prompt for the user id interactively
  faexport export

  # Write the PDF somewhere else with a different page capacity
  faexport export 123456 --output ~/exports --records-per-page 8`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runExport(args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for the PDF (default: current directory)")
	exportCmd.Flags().IntVar(&recordsPerPage, "records-per-page", 5, "rating records per PDF page")
	exportCmd.Flags().IntVar(&maxPages, "max-pages", 200, "safety cap on catalog pages fetched")
	exportCmd.Flags().StringVar(&baseURL, "base-url", "", "override the FilmAffinity base URL")

	// The root command doubles as export, so it takes the same flags
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for the PDF (default: current directory)")
	rootCmd.Flags().IntVar(&recordsPerPage, "records-per-page", 5, "rating records per PDF page")
	rootCmd.Flags().IntVar(&maxPages, "max-pages", 200, "safety cap on catalog pages fetched")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "override the FilmAffinity base URL")
}

func runExport(args []string) {
	var userID string
	if len(args) > 0 {
		userID = args[0]
	} else {
		var err error
		userID, err = promptUserID(os.Stdin, os.Stdout)
		if err != nil {
			ui.PrintError("Failed to read user id", err.Error())
			os.Exit(1)
		}
	}

	// Non-empty is the only requirement; the site itself is the judge of
	// whether the id exists.
	userID = filmaffinity.SanitizeUserID(userID)
	if userID == "" {
		ui.PrintError("A FilmAffinity user id is required")
		os.Exit(1)
	}

	ui.PrintInfo("Target user", userID)

	// Build flags map from command line
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if recordsPerPage != 5 {
		flags["records-per-page"] = recordsPerPage
	}
	if maxPages != 200 {
		flags["max-pages"] = maxPages
	}
	if baseURL != "" {
		flags["base-url"] = baseURL
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	log := logger.GetLogger()
	log.WithField("version", version).Info("faexport starting")

	client := filmaffinity.NewClient(cfg.FilmAffinity.BaseURL, cfg.FilmAffinity.RequestTimeout, log)
	if cfg.FilmAffinity.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.FilmAffinity.UserAgent)
	}

	// Walk the full rating history
	ui.PrintInfo("Status", "fetching rated titles")
	s := scraper.New(cfg, client)
	session, err := s.FetchAllRatings(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Export failed")
		ui.PrintError("Export failed", err.Error())
		os.Exit(1)
	}

	if len(session.Records) == 0 {
		log.WithField("user_id", userID).Warn("No ratings found")
		ui.PrintWarning("No ratings found for this user; nothing to export")
		os.Exit(1)
	}

	// Render and write the document
	ui.PrintInfo("Status", fmt.Sprintf("rendering %d records to PDF", len(session.Records)))
	renderer := pdf.NewRenderer(cfg, client)

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		ui.PrintError("Failed to prepare output directory", err.Error())
		os.Exit(1)
	}

	path, err := store.SaveDocument(cfg.OutputFileName(userID), func(w io.Writer) error {
		return renderer.Render(session, w)
	})
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Writing PDF failed")
		ui.PrintError("Writing PDF failed", err.Error())
		os.Exit(1)
	}

	pages := (len(session.Records) + cfg.Output.RecordsPerPage - 1) / cfg.Output.RecordsPerPage
	log.WithFields(map[string]interface{}{
		"user_id": userID,
		"records": len(session.Records),
		"pages":   pages,
		"path":    path,
	}).Info("Export completed")

	ui.PrintSuccess(fmt.Sprintf("Exported %d ratings (%d PDF pages) to %s", len(session.Records), pages, path))
}

// promptUserID reads a user id from one line of input
func promptUserID(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Please enter your FilmAffinity user id: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

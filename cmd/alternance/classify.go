package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-alternance-automation/internal/classifier"
	"go-alternance-automation/internal/config"
	"go-alternance-automation/internal/models"
	"go-alternance-automation/internal/pipeline"
	"go-alternance-automation/internal/scraper/alternance"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a captured results page offline",
	Long:  "Reads a saved results page (.html) or a JSON array of raw cards (.json), classifies every card and writes the report.",
	RunE:  runClassify,
}

var classifyInputFile string

func init() {
	classifyCmd.Flags().StringVarP(&classifyInputFile, "in", "i", "", "Path to a captured .html page or a .json card list")
	_ = classifyCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	c, err := loadClassifier(cfg)
	if err != nil {
		return err
	}

	f, err := os.Open(classifyInputFile)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	cards, err := readCards(classifyInputFile, f)
	if err != nil {
		return err
	}

	result, err := pipeline.Process(context.Background(), cards, pipeline.Options{
		BaseURL:    cfg.Search.BaseURL,
		Workers:    cfg.Workers,
		Classifier: c,
		Quiet:      true,
	})
	if err != nil {
		return err
	}

	printAudit(cmd.OutOrStdout(), result.Records)
	_, err = writeReport(cfg, result)
	return err
}

func readCards(name string, r io.Reader) ([]models.RawCard, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return alternance.ParseCardsJSON(r)
	case ".html", ".htm":
		return alternance.ParseCapturedHTML(r)
	default:
		return nil, fmt.Errorf("unsupported input %q: expected .html or .json", name)
	}
}

func printAudit(w io.Writer, records []models.OfferRecord) {
	for _, rec := range records {
		fmt.Fprintln(w, classifier.Describe(rec.Offer, rec.Classification))
	}
}

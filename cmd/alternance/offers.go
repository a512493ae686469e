package main

import (
	"context"
	"fmt"

	"go-alternance-automation/internal/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var offersCmd = &cobra.Command{
	Use:   "offers",
	Short: "List the offers stored for a session",
	RunE:  runOffers,
}

var offersSession string

func init() {
	offersCmd.Flags().StringVar(&offersSession, "session", "", "Session ID printed by search")
	_ = offersCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(offersCmd)
}

func runOffers(cmd *cobra.Command, _ []string) error {
	sessionID, err := uuid.Parse(offersSession)
	if err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database_url is not configured")
	}

	ctx := context.Background()
	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	records, err := repo.ListOffers(ctx, sessionID)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, rec := range records {
		fmt.Fprintf(w, "%3d  %-13s %-10s %s\n", rec.Offer.SourceIndex, rec.Classification.Category, rec.ApplicationStatus, rec.Offer.Title)
	}
	fmt.Fprintf(w, "%d offers\n", len(records))
	return nil
}

package main

import (
	"fmt"
	"path/filepath"

	"go-alternance-automation/internal/browser"
	"go-alternance-automation/internal/config"

	"github.com/spf13/cobra"
)

var cookiesCmd = &cobra.Command{
	Use:   "cookies",
	Short: "Check a cookie file",
	Long:  "Loads a browser cookie export and lists the cookies that would be injected into the search session.",
	RunE:  runCookies,
}

var cookiesFile string

func init() {
	cookiesCmd.Flags().StringVarP(&cookiesFile, "file", "f", "", "Cookie JSON file (default <cookies_path>/"+cookieFile+")")
	rootCmd.AddCommand(cookiesCmd)
}

func runCookies(cmd *cobra.Command, _ []string) error {
	path := cookiesFile
	if path == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		path = filepath.Join(cfg.CookiesPath, cookieFile)
	}

	cookies, err := browser.LoadCookies(path)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "🍪 %d cookies in %s\n", len(cookies), path)
	for _, c := range cookies {
		domain := "-"
		if c.Domain != nil {
			domain = *c.Domain
		}
		fmt.Fprintf(w, "  %-30s %s\n", c.Name, domain)
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nrro-site",
	Short: "Backend for the NRRO / Navarro Tax Legal website and admin console",
	Long: `nrro-site serves the public form and content API, the admin console API
and the XML sitemap for nrro.es and navarrotaxlegal.com.

Configuration comes from the environment (and an optional .env file).`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, workerCmd, sitemapCmd, migrateCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

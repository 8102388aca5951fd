package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"nrro-site/domain"
)

var sitemapOut string

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Write sitemap.xml for the primary site",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		sites, err := domain.NewSiteDirectory(a.cfg.Site.Sites)
		if err != nil {
			return err
		}
		set, err := a.sitemapService(sites).Build(cmd.Context())
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if sitemapOut != "" && sitemapOut != "-" {
			f, err := os.Create(sitemapOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := set.Encode(w); err != nil {
			return err
		}
		a.log.WithField("urls", len(set.URLs)).Info("sitemap written")
		return nil
	},
}

func init() {
	sitemapCmd.Flags().StringVarP(&sitemapOut, "out", "o", "-", "output file, - for stdout")
}

package cli

import (
	"fmt"
	"github.com/jypelle/piradio/internal/srv/catalog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	tracksFile    string
	outputFile    string
	githubRepo    string
	releaseTag    string
	releasePrefix string
	rawPrefix     string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Build and rewrite tracks files",
}

var catalogBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Scan the music folder and write the tracks file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tracks, err := newScanner().Scan()
		if err != nil {
			return err
		}
		if err = catalog.WriteTracksFile(tracksFilename(), tracks); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Build complete: %d tracks written to %s\n", len(tracks), tracksFilename())
		return nil
	},
}

var catalogGithubUrlsCmd = &cobra.Command{
	Use:   "github-urls",
	Short: "Point music/ locators of the tracks file to a GitHub release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return convertTracksFile(cmd, func(locator string) string {
			return catalog.GitHubReleaseUrl(locator, githubRepo, releaseTag)
		})
	},
}

var catalogRawUrlsCmd = &cobra.Command{
	Use:   "raw-urls",
	Short: "Rewrite GitHub urls of the tracks file to raw.githubusercontent.com",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return convertTracksFile(cmd, func(locator string) string {
			return catalog.RawUrl(locator, releasePrefix, rawPrefix)
		})
	},
}

func tracksFilename() string {
	if tracksFile != "" {
		return tracksFile
	}
	return cfg.CatalogParam.TracksFile
}

func convertTracksFile(cmd *cobra.Command, convert func(string) string) error {
	input := tracksFilename()
	tracks, err := catalog.ReadTracksFile(input)
	if err != nil {
		return err
	}
	logrus.Debugf("Loaded %d tracks from %s", len(tracks), input)

	changed := catalog.ConvertTracks(tracks, convert)
	if changed == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No urls needed updating")
		return nil
	}

	output := outputFile
	if output == "" {
		output = input
	}
	if err = catalog.WriteTracksFile(output, tracks); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %d urls in %s\n", changed, output)
	return nil
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&tracksFile, "tracks", "", "tracks file (default from param file)")

	catalogGithubUrlsCmd.Flags().StringVar(&githubRepo, "github-repo", "", "GitHub repository (owner/repo)")
	catalogGithubUrlsCmd.Flags().StringVar(&releaseTag, "release-tag", "v1", "GitHub release tag")
	catalogGithubUrlsCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: overwrite the tracks file)")
	catalogGithubUrlsCmd.MarkFlagRequired("github-repo")

	catalogRawUrlsCmd.Flags().StringVar(&releasePrefix, "release-prefix", "", "release download url prefix, e.g. https://github.com/owner/repo/releases/download/")
	catalogRawUrlsCmd.Flags().StringVar(&rawPrefix, "raw-prefix", "", "raw url prefix replacing release downloads")
	catalogRawUrlsCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: overwrite the tracks file)")

	catalogCmd.AddCommand(catalogBuildCmd, catalogGithubUrlsCmd, catalogRawUrlsCmd)
	rootCmd.AddCommand(catalogCmd)
}

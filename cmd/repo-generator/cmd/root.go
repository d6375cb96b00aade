package cmd

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Torresmi9294/kodi-romm-repo/internal/config"
	"github.com/Torresmi9294/kodi-romm-repo/internal/logger"
	"github.com/Torresmi9294/kodi-romm-repo/internal/service/generator"
	"github.com/Torresmi9294/kodi-romm-repo/internal/version"
)

var (
	// configPath to an optional configuration YAML file.
	configPath string

	// zipsFolder is the directory tree scanned for add-on archives.
	zipsFolder string

	// outputFolder receives addons.xml and addons.xml.md5.
	outputFolder string

	// logLevel sets the minimum severity of stderr diagnostics.
	logLevel string

	// rootCmd represents the base command generating the repository index.
	rootCmd = &cobra.Command{
		Use:   "repo-generator",
		Short: "Generate addons.xml and addons.xml.md5 from packaged add-on archives",
		Long: "Scan a folder tree of packaged add-on archives, keep the highest version " +
			"per add-on identifier, and write the aggregated addons.xml plus its MD5 " +
			"checksum into the output folder. Unusable archives are reported to stderr " +
			"and skipped.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &generator.Options{
				ConfigPath:   configPath,
				ZipsFolder:   zipsFolder,
				OutputFolder: outputFolder,
				Summary:      os.Stdout,
			}

			return generator.Run(ctx, options)
		},
	}
)

// Execute runs the repo-generator CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	// Folder flags default to empty so a configuration file can still supply
	// them; unset values fall back to the config package defaults.
	rootCmd.Flags().StringVarP(&zipsFolder, "zips", "z",
		"", "path to the folder with add-on archives (default "+strconv.Quote(config.DefaultZipsFolder)+")")
	rootCmd.Flags().StringVarP(&outputFolder, "out", "o",
		"", "output folder for addons.xml and addons.xml.md5 (default "+strconv.Quote(config.DefaultOutputFolder)+")")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to an optional configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", logger.Level().String(), "logging level (debug, info, warn, error)")
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cvegate/cvegate/config"
	"github.com/cvegate/cvegate/internal"
)

var versions = "cvegate version v0.1.0"

var (
	rootCmd = &cobra.Command{
		Use:   "cvegate [OPTIONS]",
		Short: "Build artifact vulnerability gate",
		Long: `Cvegate checks build artifacts against a vulnerability database
               and fails the build when a sufficiently severe match is found`,
	}

	configFile string
	outfile    string
	algorithm  string
	mode       string
	failOn     string
	skipUpdate bool
	upgradeall bool
)

func Execute() error {
	checkCmd := &cobra.Command{
		Use:   "check PATH...",
		Short: "Check artifacts against the vulnerability database",
		Long: `Examples:
  # Check every artifact under a build output folder
  $ cvegate check target/

  # Check single files and a manifest of paths
  $ cvegate check libs/commons-io-2.4.jar artifacts.list

  # Offline run against the existing local database
  $ cvegate check --skip target/

  # Fail only on critical matches, include metadata matching
  $ cvegate check --mode metadata --fail-on critical target/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires at least 1 path")
			}

			settings, err := resolveSettings(cmd)
			if err != nil {
				return err
			}

			return internal.DoCheck(cmd.Context(), settings, args)
		},
	}

	// Force a database synchronization
	upgradeCmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade vulnerability database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(configFile)
			if err != nil {
				return err
			}

			return internal.DoUpgrade(cmd.Context(), settings, upgradeall)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information and quit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(versions)
		},
	}

	checkCmd.Flags().StringVar(&configFile, "config", "", "path of settings file")
	checkCmd.Flags().StringVarP(&outfile, "output", "o", "output", "output file location")
	checkCmd.Flags().StringVar(&algorithm, "algorithm", "sha512", "fingerprint algorithm (sha1|sha256|sha512)")
	checkCmd.Flags().StringVar(&mode, "mode", config.ModeFingerprint, "scan mode (fingerprint|metadata)")
	checkCmd.Flags().StringVar(&failOn, "fail-on", "high", "lowest severity that fails the run")
	checkCmd.Flags().BoolVar(&skipUpdate, "skip", false, "skip the database update")

	upgradeCmd.Flags().StringVar(&configFile, "config", "", "path of settings file")
	upgradeCmd.Flags().BoolVarP(&upgradeall, "all", "a", false, "Reset the database")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(versionCmd)
	return rootCmd.Execute()
}

func resolveSettings(cmd *cobra.Command) (config.Settings, error) {
	settings, err := config.Load(configFile)
	if err != nil {
		return settings, err
	}

	// Flags win over file and environment, but only when set
	if cmd.Flags().Changed("algorithm") {
		settings.Algorithm = algorithm
	}
	if cmd.Flags().Changed("mode") {
		settings.Mode = mode
	}
	if cmd.Flags().Changed("fail-on") {
		settings.FailOn = failOn
	}
	if cmd.Flags().Changed("output") {
		settings.Output = outfile
	}
	if skipUpdate {
		settings.Update = false
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}

	return settings, nil
}

package cli

import (
	"github.com/spf13/cobra"
	"github.com/stackgen-labs/stackgen/internal/branding"
	"github.com/stackgen-labs/stackgen/internal/catalog"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagDir            string
	flagParallel       bool
	flagCatalog        string
	flagPackageManager string
	flagVerbose        bool
)

func init() {
	rootCmd.Flags().StringVarP(&flagDir, "dir", "d", "", "Project directory (skips the directory prompt)")
	rootCmd.Flags().BoolVar(&flagParallel, "parallel", false, "Scaffold client and server concurrently")
	rootCmd.Flags().StringVar(&flagPackageManager, "package-manager", "", "Package manager to use: npm, pnpm or yarn (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "Use a catalog file instead of the built-in one")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every command before it runs")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " [client] [server]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds a React + Vite + Tailwind client and an Express + TypeScript
server, installing their dependencies with npm.

With no arguments it asks for a project directory and creates both parts
inside it. Name "client" and/or "server" to scaffold only those parts under
the current directory (or --dir).`,
	Example: `  ` + branding.CLIName() + `
  ` + branding.CLIName() + ` client
  ` + branding.CLIName() + ` client server --dir shop --parallel`,
	Args:          validateTargetArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScaffold,
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// loadCatalog returns the --catalog override or the embedded catalog.
func loadCatalog() (*catalog.Catalog, error) {
	if flagCatalog != "" {
		return catalog.LoadFile(flagCatalog)
	}
	return catalog.Default()
}

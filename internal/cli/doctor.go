package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stackgen-labs/stackgen/internal/catalog"
	"github.com/stackgen-labs/stackgen/internal/config"
	"github.com/stackgen-labs/stackgen/internal/toolchain"
)

var doctorQuiet bool

// newProbe is replaced in tests.
var newProbe = toolchain.NewProbe

func init() {
	doctorCmd.Flags().BoolVarP(&doctorQuiet, "quiet", "q", false, "Only report problems")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the tools scaffolding needs are installed",
	Long: `Run diagnostic checks on the local toolchain: node, npm and npx must be on
PATH, and node must satisfy the catalog's minimum version. When pnpm or yarn
is the configured package manager it replaces npm and npx in the check.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		config.Load()

		binaries := requiredBinaries(cat.Toolchain.Binaries, config.Current().PackageManager)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		report, err := newProbe().Run(ctx, binaries, cat.Toolchain.Node)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if doctorQuiet {
			printProblems(out, report)
		} else {
			report.Print(out)
			printCatalogLine(out, cat)
		}

		if !report.OK() {
			return fmt.Errorf("toolchain check failed")
		}
		return nil
	},
}

func printProblems(w io.Writer, report *toolchain.Report) {
	failed := &toolchain.Report{}
	for _, c := range report.Checks {
		if c.Status != toolchain.StatusOK {
			failed.Checks = append(failed.Checks, c)
		}
	}
	if len(failed.Checks) > 0 {
		failed.Print(w)
	}
}

func printCatalogLine(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintln(w, "Catalog:")
	fmt.Fprintf(w, "  [ OK ] %s (version %d, %d templates)\n", cat.Source(), cat.Version, len(cat.Templates()))
}

// requiredBinaries is the catalog's binary list adjusted for pm. Generated
// commands and scripts go through pm alone when it is not npm.
func requiredBinaries(catalogBinaries []string, pm string) []string {
	if pm == "" || pm == "npm" {
		return append([]string(nil), catalogBinaries...)
	}
	var out []string
	for _, b := range catalogBinaries {
		if b != "npm" && b != "npx" {
			out = append(out, b)
		}
	}
	if !contains(out, pm) {
		out = append(out, pm)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

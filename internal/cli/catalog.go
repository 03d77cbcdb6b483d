package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stackgen-labs/stackgen/internal/catalog"
	"go.yaml.in/yaml/v3"
)

var catalogShowYAML bool

func init() {
	catalogShowCmd.Flags().BoolVar(&catalogShowYAML, "yaml", false, "Print the resolved catalog as YAML")
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the template catalog",
	Long: `Inspect the catalog that lists the dependencies, folders and template files
used to scaffold the client and server.

The built-in catalog is used unless --catalog points at another file.
Templates in a templates/ directory beside that file replace the built-in
ones with the same name.`,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show what the catalog will generate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if catalogShowYAML {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cat); err != nil {
				return fmt.Errorf("encoding catalog: %w", err)
			}
			return enc.Close()
		}

		printCatalog(out, cat)
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a catalog file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Catalog validation: %s\n", path)

		result, err := catalog.ValidateFile(path)
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
			return fmt.Errorf("catalog validation failed: %w", err)
		}

		if !result.Valid {
			fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
			for _, issue := range result.Issues {
				fmt.Fprintf(out, "    - %s\n", issue)
			}
			return fmt.Errorf("catalog %s has %d validation issue(s)", path, len(result.Issues))
		}

		cat, err := catalog.LoadFile(path)
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
			return err
		}
		fmt.Fprintf(out, "  [ OK ] Valid catalog (version %d, %d templates)\n", cat.Version, len(cat.Templates()))
		return nil
	},
}

func printCatalog(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintf(w, "Catalog: %s (version %d)\n", cat.Source(), cat.Version)
	fmt.Fprintf(w, "Toolchain: %s, node %s\n", strings.Join(cat.Toolchain.Binaries, ", "), cat.Toolchain.Node)

	c := cat.Client
	fmt.Fprintln(w, "\nClient:")
	fmt.Fprintf(w, "  Vite template:   %s\n", c.Template)
	fmt.Fprintf(w, "  Styling (dev):   %s\n", strings.Join(c.StylingDependencies, " "))
	fmt.Fprintf(w, "  Dependencies:    %s\n", strings.Join(c.Dependencies, " "))
	printFiles(w, c.Files)
	if c.Entry != nil {
		printFiles(w, []catalog.File{*c.Entry})
	}
	if c.Readme != nil {
		printFiles(w, []catalog.File{{Path: c.Readme.Path, Template: c.Readme.Template}})
	}
	printFolders(w, c.Folders)

	s := cat.Server
	fmt.Fprintln(w, "\nServer:")
	fmt.Fprintf(w, "  Dependencies:    %s\n", strings.Join(s.Dependencies, " "))
	fmt.Fprintf(w, "  Dev dependencies: %s\n", strings.Join(s.DevDependencies, " "))
	printFiles(w, s.ConfigFiles)
	printFiles(w, s.Sources)
	printFolders(w, s.Folders)

	fmt.Fprintln(w, "  Scripts:")
	for _, kv := range s.Scripts {
		fmt.Fprintf(w, "    %-10s %s\n", kv.Key, kv.Value)
	}
	fmt.Fprintln(w, "  Environment:")
	for _, kv := range s.Env {
		fmt.Fprintf(w, "    %s=%s\n", kv.Key, kv.Value)
	}
}

func printFiles(w io.Writer, files []catalog.File) {
	for _, f := range files {
		fmt.Fprintf(w, "  File:            %s <- %s\n", f.Path, f.Template)
	}
}

func printFolders(w io.Writer, folders []string) {
	if len(folders) > 0 {
		fmt.Fprintf(w, "  Folders:         %s\n", strings.Join(folders, " "))
	}
}

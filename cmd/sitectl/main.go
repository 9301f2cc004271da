// Command sitectl is the operator CLI of the site: catalog imports, search
// reindexing and author management against the configured live store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/meson-site/pkg/config/env"
)

var rootCmd = &cobra.Command{
	Use:   "sitectl",
	Short: "Operator tooling for the El Mesón de Pepe site",
	Long: `sitectl manages the live content store of the El Mesón de Pepe site.
It imports post catalogs, rebuilds the search index and creates admin authors.
Storage is selected with the same environment variables as the site API.`,
	SilenceUsage: true,
}

func main() {
	appSettings := NewAppConfig()
	env.SetupLogger(appSettings.ENV)

	rootCmd.AddCommand(newImportCmd(appSettings), newReindexCmd(appSettings), newAuthorCmd(appSettings))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "atelier",
	Short: "ATELIER storefront",
	Long: `Serve the ATELIER storefront and inspect its catalog and pages.

Configuration comes from the environment (PORT, DB_DSN, CATALOG_FILE,
WATCH_CATALOG, LOG_LEVEL, LOG_FILE, RATE_LIMIT, PROMO_CODE, ...); the
serve flags override it.`,
	SilenceUsage: true,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Listen port (overrides PORT)")
	serveCmd.Flags().StringVar(&serveDSN, "db", "", "SQLite path, :memory: or postgres:// DSN (overrides DB_DSN)")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "Catalog YAML file (overrides CATALOG_FILE)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the catalog file when it changes")

	catalogCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "Catalog YAML file (default: embedded catalog)")
	catalogCmd.Flags().StringVarP(&catalogCategory, "category", "c", "all", "Only list this category")
	catalogCmd.Flags().StringVarP(&catalogSort, "sort", "s", "", "Sort key: price-low, price-high or newest")

	pagesShowCmd.Flags().StringVar(&pagesStyle, "style", "auto", "Glamour style: auto, dark, light or notty")
	pagesShowCmd.Flags().IntVar(&pagesWidth, "width", 80, "Word wrap width")
	pagesCmd.AddCommand(pagesListCmd)
	pagesCmd.AddCommand(pagesShowCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(pagesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"atelier/internal/catalog"
	"atelier/internal/domain"
	"atelier/internal/pricing"
	"atelier/internal/services"
)

var (
	catalogFile     string
	catalogCategory string
	catalogSort     string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List catalog products",
	Long: `Validate a catalog and print its products as a table.

Examples:
  atelier catalog
  atelier catalog --category knitwear --sort price-low
  atelier catalog -f ./catalog.yaml`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(catalogFile)
	if err != nil {
		return err
	}
	if !cat.HasCategory(catalogCategory) {
		return fmt.Errorf("unknown category %q", catalogCategory)
	}
	ps := services.SortProducts(services.FilterByCategory(cat.Products, catalogCategory), catalogSort)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%d products", len(ps))))
	if len(ps) == 0 {
		return nil
	}
	fmt.Fprintln(out, productTable(ps))
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d collections, %d FAQ topics", len(cat.Collections), len(cat.FAQ))))
	return nil
}

func productTable(ps []domain.Product) string {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, []string{p.ID, p.Name, p.Category, productPrice(p), strings.Join(badges(p), " ")})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("ID", "NAME", "CATEGORY", "PRICE", "TAGS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func productPrice(p domain.Product) string {
	s := pricing.Format(p.Price)
	if p.OriginalPrice.Valid {
		s += " (was " + pricing.Format(p.OriginalPrice.Decimal) + ")"
	}
	return s
}

func badges(p domain.Product) []string {
	var out []string
	if p.IsNew {
		out = append(out, "new")
	}
	if p.IsSale {
		out = append(out, "sale")
	}
	if p.BestSellerRank > 0 {
		out = append(out, fmt.Sprintf("best#%d", p.BestSellerRank))
	}
	return out
}

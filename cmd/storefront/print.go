package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/smarttech/storefront/internal/cart"
	"github.com/smarttech/storefront/internal/storefront"
)

func newFlags(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parseFlags parses a subcommand's flags; the flag package has already printed the problem.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errors.Join(errReported, errUsage)
	}
	return nil
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func price(v float64) string {
	return cart.FormatPrice(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printProduct(w io.Writer, p storefront.Product) {
	fmt.Fprintf(w, "#%d %s\n", p.ID, p.Name)
	fmt.Fprintf(w, "  price: %s\n", price(p.Price))
	fmt.Fprintf(w, "  in stock: %d\n", p.StockQuantity)
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
	for _, key := range sortedKeys(p.Specifications) {
		fmt.Fprintf(w, "  %s: %v\n", key, p.Specifications[key])
	}
	for _, img := range p.Images {
		fmt.Fprintf(w, "  image: %s\n", img)
	}
	if p.VideoURL != nil {
		fmt.Fprintf(w, "  video: %s\n", *p.VideoURL)
	}
}

func printCart(w io.Writer, s cart.State) {
	if s.Empty() {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tQTY\tPRICE\tLINE TOTAL")
	for _, line := range s.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", line.Product.ID, line.Product.Name, line.Quantity,
			price(line.Product.Price), price(cart.LineTotal(line)))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Items: %d\nTotal: %s\n", cart.TotalItems(s), price(cart.TotalPrice(s)))
}

func printOrders(w io.Writer, orders []storefront.Order) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tPRODUCT\tQTY\tTOTAL\tSTATUS\tDATE")
	for _, o := range orders {
		customer := ""
		if o.Customer != nil {
			customer = o.Customer.FullName
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%s\n", o.ID, customer, o.ProductID, o.Quantity,
			price(o.TotalPrice), o.Status, o.OrderDate)
	}
	_ = tw.Flush()
}

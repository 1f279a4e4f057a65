package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopfront/catalog-console/internal/core/domain"
	"github.com/shopfront/catalog-console/internal/core/ports"
	"github.com/shopfront/catalog-console/internal/guard"
)

const descriptionPreviewLen = 50

// renderProductList renders the catalog. Managers get the full table with
// row identity for follow-up actions; everyone else gets the browse-only
// view with no management affordances.
func renderProductList(out io.Writer, items []domain.Product, manager bool) {
	if manager {
		renderManagerTable(out, items)
		return
	}
	renderBrowseView(out, items)
}

func renderManagerTable(out io.Writer, items []domain.Product) {
	fmt.Fprintln(out, "Products Management")
	if len(items) == 0 {
		fmt.Fprintln(out, "No products found")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tDESCRIPTION")
	for _, p := range items {
		fmt.Fprintf(w, "%d\t%s\t$%.2f\t%s\n", p.ID, p.Name, p.Price, preview(p.Description))
	}
	w.Flush()
}

func renderBrowseView(out io.Writer, items []domain.Product) {
	fmt.Fprintln(out, "Products")
	fmt.Fprintln(out, "Browse our collection of products")
	if len(items) == 0 {
		fmt.Fprintln(out, "No products available")
		return
	}
	for _, p := range items {
		fmt.Fprintf(out, "\n%s\n  %s\n  $%.2f\n", p.Name, p.Description, p.Price)
	}
}

// renderDialog renders the dialog's draft fields. Viewing mode is read-only
// and offers no submit action; the other modes are driven interactively.
func renderDialog(out io.Writer, view ports.DialogView) {
	fmt.Fprintln(out, dialogTitle(view.Mode))
	fmt.Fprintf(out, "Name:        %s\n", view.Draft.Name)
	fmt.Fprintf(out, "Price:       $%s\n", view.Draft.Price)
	fmt.Fprintf(out, "Description: %s\n", view.Draft.Description)
}

func dialogTitle(mode domain.DialogMode) string {
	switch mode {
	case domain.DialogCreating:
		return "Create New Product"
	case domain.DialogEditing:
		return "Edit Product"
	case domain.DialogViewing:
		return "Product Details"
	default:
		return "Product"
	}
}

// renderAccessDenied shows the failed requirement and the user's actual role,
// mirroring the access-denied view of the web client.
func renderAccessDenied(out io.Writer, res guard.Result) {
	fmt.Fprintln(out, "Access Denied")
	if res.Required == "product management" {
		fmt.Fprintln(out, "You don't have permission to manage products. This feature is only available to Super Admins and Admins.")
	} else {
		fmt.Fprintf(out, "You don't have permission to access this page. Required role: %s\n", res.Required)
	}
	fmt.Fprintf(out, "Your current role: %s\n", res.ActualRole)
}

func preview(s string) string {
	if len(s) > descriptionPreviewLen {
		return s[:descriptionPreviewLen] + "..."
	}
	return s
}

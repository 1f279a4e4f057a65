package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/shopfront/catalog-console/internal/core/domain"
	"github.com/shopfront/catalog-console/internal/guard"
)

func newProductsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and manage the product catalog",
	}
	cmd.AddCommand(
		newProductsListCmd(app),
		newProductsViewCmd(app),
		newProductsCreateCmd(app),
		newProductsUpdateCmd(app),
		newProductsDeleteCmd(app),
	)
	return cmd
}

func newProductsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.guardView(guard.Requirement{}, guard.RouteProducts) {
				return nil
			}
			if !app.ensureFresh(cmd) {
				return nil
			}
			if err := app.products.FetchAll(cmd.Context()); err != nil {
				fmt.Fprintln(app.out, domain.UserMessage(err, "Error fetching products"))
				return nil
			}
			manager := app.session.CanManageProducts()
			renderProductList(app.out, app.products.Products(), manager)
			if manager {
				fmt.Fprintf(app.out, "\nWelcome, %s\n", app.session.User().Name)
			}
			return nil
		},
	}
}

func newProductsViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.guardView(guard.Requirement{}, guard.RouteProducts) {
				return nil
			}
			if !app.ensureFresh(cmd) {
				return nil
			}
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			product, err := app.products.Get(cmd.Context(), id)
			if err != nil {
				fmt.Fprintln(app.out, domain.UserMessage(err, "Error fetching product"))
				return nil
			}
			if err := app.products.OpenDialog(domain.DialogViewing, product); err != nil {
				return err
			}
			renderDialog(app.out, app.products.Dialog())
			app.products.CloseDialog()
			return nil
		},
	}
}

func newProductsCreateCmd(app *App) *cobra.Command {
	var name, price, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.guardView(guard.Requirement{ManageProducts: true}, guard.RouteProducts) {
				return nil
			}
			if !app.ensureFresh(cmd) {
				return nil
			}
			if err := app.products.OpenDialog(domain.DialogCreating, nil); err != nil {
				return err
			}
			defer app.products.CloseDialog()

			if err := fillDraft(app, name, price, description); err != nil {
				return err
			}
			created, err := app.products.Create(cmd.Context(), app.products.Dialog().Draft)
			if err != nil {
				return renderMutationError(app.out, err, "Error creating product")
			}
			fmt.Fprintf(app.out, "Product created successfully (id %d)\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&price, "price", "", "product price")
	cmd.Flags().StringVar(&description, "description", "", "product description")
	return cmd
}

func newProductsUpdateCmd(app *App) *cobra.Command {
	var name, price, description string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.guardView(guard.Requirement{ManageProducts: true}, guard.RouteProducts) {
				return nil
			}
			if !app.ensureFresh(cmd) {
				return nil
			}
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			current, err := app.products.Get(cmd.Context(), id)
			if err != nil {
				fmt.Fprintln(app.out, domain.UserMessage(err, "Error fetching product"))
				return nil
			}
			// Seed the draft from the record being edited.
			if err := app.products.OpenDialog(domain.DialogEditing, current); err != nil {
				return err
			}
			defer app.products.CloseDialog()

			if err := fillDraft(app, name, price, description); err != nil {
				return err
			}
			updated, err := app.products.Update(cmd.Context(), id, app.products.Dialog().Draft)
			if err != nil {
				return renderMutationError(app.out, err, "Error updating product")
			}
			fmt.Fprintf(app.out, "Product updated successfully (id %d)\n", updated.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&price, "price", "", "product price")
	cmd.Flags().StringVar(&description, "description", "", "product description")
	return cmd
}

func newProductsDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.guardView(guard.Requirement{ManageProducts: true}, guard.RouteProducts) {
				return nil
			}
			if !app.ensureFresh(cmd) {
				return nil
			}
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			confirm := confirmPrompt
			if yes {
				confirm = func(string) bool { return true }
			}
			deleted, err := app.products.Delete(cmd.Context(), id, confirm)
			if err != nil {
				return renderMutationError(app.out, err, "Error deleting product")
			}
			if !deleted {
				fmt.Fprintln(app.out, "Aborted.")
				return nil
			}
			fmt.Fprintln(app.out, "Product deleted successfully")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

// fillDraft pushes flag values into the dialog draft and prompts for the
// rest. Prompt defaults come from the seeded draft, so editing shows the
// current values.
func fillDraft(app *App, name, price, description string) error {
	if name != "" {
		app.products.SetDraftField("name", name)
	}
	if price != "" {
		app.products.SetDraftField("price", price)
	}
	if description != "" {
		app.products.SetDraftField("description", description)
	}
	if name != "" && price != "" && description != "" {
		return nil
	}

	draft := app.products.Dialog().Draft
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Product Name").Value(&draft.Name),
		huh.NewInput().Title("Price").Value(&draft.Price),
		huh.NewText().Title("Description").Value(&draft.Description),
	))
	if err := form.Run(); err != nil {
		return err
	}
	app.products.SetDraftField("name", draft.Name)
	app.products.SetDraftField("price", draft.Price)
	app.products.SetDraftField("description", draft.Description)
	return nil
}

func confirmPrompt(prompt string) bool {
	var ok bool
	if err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(prompt).Value(&ok),
	)).Run(); err != nil {
		return false
	}
	return ok
}

// renderMutationError prints validation errors field by field and everything
// else as a single notice. Mutation failures never change local state, so
// there is nothing to roll back here.
func renderMutationError(out io.Writer, err error, fallback string) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for _, field := range []string{"name", "price", "description"} {
			if msg, ok := verr.Fields[field]; ok {
				fmt.Fprintf(out, "%s: %s\n", field, msg)
			}
		}
		return errors.New("validation failed")
	}
	fmt.Fprintln(out, domain.UserMessage(err, fallback))
	return nil
}

func parseProductID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", arg)
	}
	return id, nil
}

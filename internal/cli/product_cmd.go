package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prodboard/internal/cli/formatter"
	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/spf13/cobra"
)

func newProductCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}

	cmd.AddCommand(
		newProductAddCmd(app),
		newProductListCmd(app),
		newProductInspectCmd(app),
		newProductUpdateCmd(app),
		newProductArchiveCmd(app),
		newProductRemoveCmd(app),
	)

	return cmd
}

func newProductAddCmd(app *App) *cobra.Command {
	var shortID, name, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new product",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Product{
				ShortID:     strings.ToUpper(strings.TrimSpace(shortID)),
				Name:        name,
				Description: description,
			}
			if err := app.Products.Create(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created product %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. CRM01)")
	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&description, "description", "", "Product description")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProductListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := app.Products.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProductList(products))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived products")

	return cmd
}

func newProductInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect PRODUCT",
		Short: "Show product details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProduct(ctx, app, args[0])
			if err != nil {
				return err
			}
			features, err := app.Features.ListByProduct(ctx, p.ID)
			if err != nil {
				return err
			}
			feedback, err := app.Feedback.ListByProduct(ctx, p.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProductInspect(formatter.ProductInspectData{
				Product:       p,
				Features:      features,
				FeedbackCount: len(feedback),
			}))
			return nil
		},
	}
}

func newProductUpdateCmd(app *App) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "update PRODUCT",
		Short: "Rename or re-describe a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProduct(ctx, app, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("description") {
				p.Description = description
			}
			if err := app.Products.Update(ctx, p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated product %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&description, "description", "", "Product description")

	return cmd
}

func newProductArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive PRODUCT",
		Short: "Archive a product (read-only from then on)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProduct(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Products.Archive(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived product %s\n", p.DisplayID())
			return nil
		},
	}
}

func newProductRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove PRODUCT",
		Short: "Delete a product with its features and feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProduct(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Products.Delete(ctx, p.ID, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed product %s\n", p.DisplayID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Remove even if the product is not archived")

	return cmd
}

package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/prodboard/internal/cli/formatter"
	"github.com/alexanderramin/prodboard/internal/importer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newImportCmd(app *App) *cobra.Command {
	var productRef string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a backlog from a YAML or JSON file",
		Long: `Import a backlog file. Features carrying an id are updated in place,
so exporting and re-importing the same file changes nothing. The product
named in the file is created when it does not exist yet; --product imports
into an existing product instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var productID string
			if productRef != "" {
				p, err := resolveProduct(ctx, app, productRef)
				if err != nil {
					return err
				}
				productID = p.ID
			}

			result, err := app.Import.ImportBacklog(ctx, args[0], productID)
			if err != nil {
				return err
			}
			app.logger().Debug("backlog imported",
				zap.String("file", args[0]),
				zap.String("product", result.Product.ShortID),
				zap.Int("created", result.Created),
				zap.Int("updated", result.Updated),
			)

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&productRef, "product", "", "Import into this existing product")

	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var out, format string

	cmd := &cobra.Command{
		Use:   "export PRODUCT",
		Short: "Export a backlog as YAML (default) or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			product, err := resolveProduct(ctx, app, args[0])
			if err != nil {
				return err
			}

			f := importer.FormatYAML
			switch {
			case format != "":
				f = importer.Format(format)
				if f != importer.FormatYAML && f != importer.FormatJSON {
					return fmt.Errorf("unknown format %q (use yaml or json)", format)
				}
			case out != "":
				f = importer.FormatForPath(out)
			}

			if out == "" {
				return app.Export.WriteBacklog(ctx, product.ID, cmd.OutOrStdout(), f)
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := app.Export.WriteBacklog(ctx, product.ID, file, f); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", product.DisplayID(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to FILE instead of stdout (.json selects JSON)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: yaml or json")

	return cmd
}

package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prodboard/internal/cli/formatter"
	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/spf13/cobra"
)

func newFeedbackCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Collect customer feedback and link it to features",
	}

	cmd.AddCommand(
		newFeedbackAddCmd(app),
		newFeedbackListCmd(app),
		newFeedbackLinkCmd(app),
		newFeedbackRemoveCmd(app),
	)

	return cmd
}

func newFeedbackAddCmd(app *App) *cobra.Command {
	var productID, author, featureRef string

	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Record a piece of feedback",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			product, err := resolveProduct(ctx, app, productID)
			if err != nil {
				return err
			}

			fb := &domain.Feedback{
				ProductID: product.ID,
				Author:    author,
				Content:   strings.Join(args, " "),
			}
			if featureRef != "" {
				f, err := resolveFeature(ctx, app, product.ID, featureRef)
				if err != nil {
					return err
				}
				fb.FeatureID = &f.ID
			}
			if err := app.Feedback.Submit(ctx, fb); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded feedback %s from %s\n", formatter.TruncID(fb.ID), fb.Author)
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product short ID or UUID")
	cmd.Flags().StringVar(&author, "author", "", "Who gave the feedback (default anonymous)")
	cmd.Flags().StringVar(&featureRef, "feature", "", "Feature to link (#seq or UUID)")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func newFeedbackListCmd(app *App) *cobra.Command {
	var featureRef string

	cmd := &cobra.Command{
		Use:   "list PRODUCT",
		Short: "List feedback, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			product, err := resolveProduct(ctx, app, args[0])
			if err != nil {
				return err
			}
			features, err := app.Features.ListByProduct(ctx, product.ID)
			if err != nil {
				return err
			}

			var items []*domain.Feedback
			if featureRef != "" {
				f, err := resolveFeature(ctx, app, product.ID, featureRef)
				if err != nil {
					return err
				}
				items, err = app.Feedback.ListByFeature(ctx, f.ID)
				if err != nil {
					return err
				}
			} else {
				items, err = app.Feedback.ListByProduct(ctx, product.ID)
				if err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFeedbackList(product, items, features))
			return nil
		},
	}

	cmd.Flags().StringVar(&featureRef, "feature", "", "Only feedback linked to this feature")

	return cmd
}

// resolveFeedback accepts a full feedback UUID or an unambiguous prefix
// within the product.
func resolveFeedback(cmd *cobra.Command, app *App, productID, input string) (*domain.Feedback, error) {
	ctx := cmd.Context()
	items, err := app.Feedback.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	var matches []*domain.Feedback
	for _, fb := range items {
		if fb.ID == input {
			return fb, nil
		}
		if strings.HasPrefix(fb.ID, input) {
			matches = append(matches, fb)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("feedback not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("feedback ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newFeedbackLinkCmd(app *App) *cobra.Command {
	var productID string
	var unlink bool

	cmd := &cobra.Command{
		Use:   "link FEEDBACK [FEATURE]",
		Short: "Link feedback to a feature, or unlink with --unlink",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			product, err := resolveProduct(ctx, app, productID)
			if err != nil {
				return err
			}
			fb, err := resolveFeedback(cmd, app, product.ID, args[0])
			if err != nil {
				return err
			}

			if unlink {
				if err := app.Feedback.LinkToFeature(ctx, fb.ID, nil); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unlinked feedback %s\n", formatter.TruncID(fb.ID))
				return nil
			}
			if len(args) < 2 {
				return fmt.Errorf("name the feature to link, or pass --unlink")
			}
			f, err := resolveFeature(ctx, app, product.ID, args[1])
			if err != nil {
				return err
			}
			if err := app.Feedback.LinkToFeature(ctx, fb.ID, &f.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked feedback %s to %s\n", formatter.TruncID(fb.ID), f.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product short ID or UUID")
	cmd.Flags().BoolVar(&unlink, "unlink", false, "Detach the feedback from its feature")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func newFeedbackRemoveCmd(app *App) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "remove FEEDBACK",
		Short: "Delete a piece of feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := resolveProduct(cmd.Context(), app, productID)
			if err != nil {
				return err
			}
			fb, err := resolveFeedback(cmd, app, product.ID, args[0])
			if err != nil {
				return err
			}
			if err := app.Feedback.Delete(cmd.Context(), fb.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed feedback %s\n", formatter.TruncID(fb.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product short ID or UUID")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/prodboard/internal/cli/formatter"
	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newFeatureCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feature",
		Short: "Manage features",
	}

	cmd.AddCommand(
		newFeatureAddCmd(app),
		newFeatureListCmd(app),
		newFeatureInspectCmd(app),
		newFeatureUpdateCmd(app),
		newFeatureStatusCmd(app),
		newFeaturePriorityCmd(app),
		newFeatureRICECmd(app),
		newFeatureDepsCmd(app),
		newFeatureHistoryCmd(app),
		newFeatureRemoveCmd(app),
	)

	return cmd
}

// riceFlags binds --reach/--impact/--confidence/--effort to a flag set.
type riceFlags struct {
	reach, impact, confidence, effort int
}

var riceFlagNames = []string{"reach", "impact", "confidence", "effort"}

func (r *riceFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&r.reach, "reach", 0, "RICE reach (1-10)")
	fs.IntVar(&r.impact, "impact", 0, "RICE impact (1-10)")
	fs.IntVar(&r.confidence, "confidence", 0, "RICE confidence (1-10)")
	fs.IntVar(&r.effort, "effort", 0, "RICE effort (1-10)")
}

func (r *riceFlags) anyChanged(fs *pflag.FlagSet) bool {
	for _, name := range riceFlagNames {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

// apply overlays the flags that were set on base.
func (r *riceFlags) apply(fs *pflag.FlagSet, base domain.RICEInput) domain.RICEInput {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "reach":
			base.Reach = r.reach
		case "impact":
			base.Impact = r.impact
		case "confidence":
			base.Confidence = r.confidence
		case "effort":
			base.Effort = r.effort
		}
	})
	return base
}

func newFeatureAddCmd(app *App) *cobra.Command {
	var productID, title, description, start, end, priority, status string
	var dependsOn []string
	var rice riceFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new feature",
		Long: `Create a new feature in a product backlog.

When --title, --description, --start or --end is missing and stdin is a
terminal, an interactive form asks for the remaining fields.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			product, err := resolveProduct(ctx, app, productID)
			if err != nil {
				return err
			}

			values := featureFormValues{
				Title:       title,
				Description: description,
				Start:       start,
				End:         end,
				Priority:    priority,
			}
			input := rice.apply(cmd.Flags(), domain.DefaultRICEInput)

			missing := missingFeatureFields(values)
			if len(missing) > 0 {
				if !app.interactive() {
					return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
				}
				values.Reach = strconv.Itoa(input.Reach)
				values.Impact = strconv.Itoa(input.Impact)
				values.Confidence = strconv.Itoa(input.Confidence)
				values.Effort = strconv.Itoa(input.Effort)
				if err := featureForm(&values).Run(); err != nil {
					return err
				}
				input = domain.RICEInput{
					Reach:      parseFormInt(values.Reach, 1),
					Impact:     parseFormInt(values.Impact, 1),
					Confidence: parseFormInt(values.Confidence, 1),
					Effort:     parseFormInt(values.Effort, 1),
				}
			}

			startDate, err := parseDate("start", values.Start)
			if err != nil {
				return err
			}
			endDate, err := parseDate("end", values.End)
			if err != nil {
				return err
			}
			deps, err := resolveFeatureIDs(ctx, app, product.ID, dependsOn)
			if err != nil {
				return err
			}

			f := &domain.Feature{
				ProductID:    product.ID,
				Title:        values.Title,
				Description:  values.Description,
				Status:       domain.FeatureStatus(status),
				Priority:     domain.MoSCoW(values.Priority),
				StartDate:    startDate,
				EndDate:      endDate,
				Dependencies: deps,
				RICE:         input,
			}
			if err := app.Features.Create(ctx, f); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeatureSummary("Created", f))
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product short ID or UUID")
	cmd.Flags().StringVar(&title, "title", "", "Feature title (3-100 characters)")
	cmd.Flags().StringVar(&description, "description", "", "Feature description (10-1000 characters)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&priority, "priority", "", "MoSCoW priority (must|should|could|wont)")
	cmd.Flags().StringVar(&status, "status", "", "Status (backlog|doing|blocked|done)")
	cmd.Flags().StringSliceVar(&dependsOn, "depends-on", nil, "Features that must finish first (#seq or UUID, repeatable)")
	rice.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func missingFeatureFields(v featureFormValues) []string {
	var missing []string
	if strings.TrimSpace(v.Title) == "" {
		missing = append(missing, "--title")
	}
	if strings.TrimSpace(v.Description) == "" {
		missing = append(missing, "--description")
	}
	if strings.TrimSpace(v.Start) == "" {
		missing = append(missing, "--start")
	}
	if strings.TrimSpace(v.End) == "" {
		missing = append(missing, "--end")
	}
	return missing
}

func newFeatureListCmd(app *App) *cobra.Command {
	var status, priority string

	cmd := &cobra.Command{
		Use:   "list PRODUCT",
		Short: "List a product's features by sequence number",
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

			filtered := features[:0]
			for _, f := range features {
				if status != "" && string(f.Status) != status {
					continue
				}
				if priority != "" && string(f.Priority) != priority {
					continue
				}
				filtered = append(filtered, f)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFeatureList(product, filtered))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only show features with this status")
	cmd.Flags().StringVar(&priority, "priority", "", "Only show features with this priority")

	return cmd
}

func newFeatureInspectCmd(app *App) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "inspect FEATURE",
		Short: "Show feature details, dependencies and linked feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFeature(ctx, app, productID, args[0])
			if err != nil {
				return err
			}
			product, err := app.Products.GetByID(ctx, f.ProductID)
			if err != nil {
				return err
			}
			all, err := app.Features.ListByProduct(ctx, f.ProductID)
			if err != nil {
				return err
			}
			feedback, err := app.Feedback.ListByFeature(ctx, f.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFeatureInspect(formatter.FeatureInspectData{
				Product:  product,
				Feature:  f,
				Features: all,
				Feedback: feedback,
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product for #seq references")

	return cmd
}

func newFeatureUpdateCmd(app *App) *cobra.Command {
	var productID, title, description, start, end string

	cmd := &cobra.Command{
		Use:   "update FEATURE",
		Short: "Edit a feature's title, description or dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFeature(ctx, app, productID, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("title") {
				f.Title = title
			}
			if cmd.Flags().Changed("description") {
				f.Description = description
			}
			if cmd.Flags().Changed("start") {
				if f.StartDate, err = parseDate("start", start); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("end") {
				if f.EndDate, err = parseDate("end", end); err != nil {
					return err
				}
			}
			if err := app.Features.Update(ctx, f); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeatureSummary("Updated", f))
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product for #seq references")
	cmd.Flags().StringVar(&title, "title", "", "Feature title")
	cmd.Flags().StringVar(&description, "description", "", "Feature description")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")

	return cmd
}

func newFeatureStatusCmd(app *App) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:       "status FEATURE STATUS",
		Short:     "Move a feature to backlog, doing, blocked or done",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"backlog", "doing", "blocked", "done"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFeature(ctx, app, productID, args[0])
			if err != nil {
				return err
			}
			updated, err := app.Features.SetStatus(ctx, f.ID, domain.FeatureStatus(strings.ToLower(args[1])))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeatureSummary("Updated", updated))
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product for #seq references")

	return cmd
}

func newFeaturePriorityCmd(app *App) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "priority FEATURE PRIORITY",
		Short: "Set the MoSCoW priority (must, should, could, wont)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFeature(ctx, app, productID, args[0])
			if err != nil {
				return err
			}
			updated, err := app.Features.SetPriority(ctx, f.ID, domain.MoSCoW(strings.ToLower(args[1])))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeatureSummary("Updated", updated))
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product for #seq references")

	return cmd
}

func newFeatureRICECmd(app *App) *cobra.Command {
	var productID, note string
	var rice riceFlags

	cmd := &cobra.Command{
		Use:   "rice FEATURE",
		Short: "Re-score a feature; unset inputs keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !rice.anyChanged(cmd.Flags()) {
				return fmt.Errorf("set at least one of --reach, --impact, --confidence, --effort")
			}
			f, err := resolveFeature(ctx, app, productID, args[0])
			if err != nil {
				return err
			}
			old := f.RICEScore
			updated, err := app.Features.UpdateRICE(ctx, f.ID, rice.apply(cmd.Flags(), f.RICE), note)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "RICE %s %s → %s  %s\n",
				updated.DisplayID(),
				formatter.Dim(fmt.Sprintf("%.2f", old)),
				formatter.Score(updated.RICEScore),
				formatter.Dim(formatter.RICEBreakdown(updated.RICE)),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product for #seq references")
	cmd.Flags().StringVar(&note, "note", "", "Why the score changed (kept in history)")
	rice.register(cmd.Flags())

	return cmd
}

func newFeatureDepsCmd(app *App) *cobra.Command {
	var productID string
	var clearDeps bool

	cmd := &cobra.Command{
		Use:   "deps FEATURE [DEPENDENCY...]",
		Short: "Replace the features this one depends on",
		Long: `Replace the dependency list of a feature. Each dependency must end
on or before the feature starts, and the result must not form a cycle.
Pass --clear to remove all dependencies.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 && !clearDeps {
				return fmt.Errorf("name at least one dependency, or pass --clear")
			}
			f, err := resolveFeature(ctx, app, productID, args[0])
			if err != nil {
				return err
			}
			deps, err := resolveFeatureIDs(ctx, app, f.ProductID, args[1:])
			if err != nil {
				return err
			}
			updated, err := app.Features.SetDependencies(ctx, f.ID, deps)
			if err != nil {
				return err
			}

			if len(updated.Dependencies) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared dependencies of %s\n", updated.DisplayID())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now depends on %d feature(s)\n", updated.DisplayID(), len(updated.Dependencies))
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product for #seq references")
	cmd.Flags().BoolVar(&clearDeps, "clear", false, "Remove all dependencies")

	return cmd
}

func newFeatureHistoryCmd(app *App) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "history FEATURE",
		Short: "Show the audit trail of a feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFeature(ctx, app, productID, args[0])
			if err != nil {
				return err
			}
			entries, err := app.Features.History(ctx, f.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHistory(f, entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product for #seq references")

	return cmd
}

func newFeatureRemoveCmd(app *App) *cobra.Command {
	var productID string
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove FEATURE",
		Short: "Delete a feature that nothing depends on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFeature(ctx, app, productID, args[0])
			if err != nil {
				return err
			}
			if !yes && app.interactive() {
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete %s %q?", f.DisplayID(), f.Title), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Features.Delete(ctx, f.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed feature %s\n", f.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product for #seq references")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

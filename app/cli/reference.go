package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/lysyi3m/moodlehack/app/i18n"
)

func (a *app) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage answer categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.service()
			if err != nil {
				return err
			}

			category, err := service.CreateCategory(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			a.ok("Created category %q (id %d)", category.Name, category.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list [search]",
		Short: "List categories by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.service()
			if err != nil {
				return err
			}

			var search string
			if len(args) == 1 {
				search = args[0]
			}

			categories, err := service.ListCategories(cmd.Context(), search)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, c := range categories {
				fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category that no answer references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			service, err := a.service()
			if err != nil {
				return err
			}

			if err := service.DeleteCategory(cmd.Context(), id); err != nil {
				return err
			}
			a.ok("Deleted category %d", id)
			return nil
		},
	})

	return cmd
}

func (a *app) periodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:        "period",
		Short:      "Manage deprecated periods",
		Deprecated: "answers carry month and year; run migrate-periods instead",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [YYYY-MM-DD]",
		Short: "Create a period, empty when no date is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date *time.Time
			if len(args) == 1 {
				d, err := time.Parse("2006-01-02", args[0])
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", args[0], err)
				}
				date = &d
			}

			service, err := a.service()
			if err != nil {
				return err
			}

			period, err := service.CreatePeriod(cmd.Context(), date)
			if err != nil {
				return err
			}
			a.ok("Created period %d", period.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List periods, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.service()
			if err != nil {
				return err
			}

			periods, err := service.ListPeriods(cmd.Context())
			if err != nil {
				return err
			}

			tag, err := i18n.Parse(a.cfg.Language)
			if err != nil {
				tag = language.English
			}
			printer := i18n.NewPrinter(tag)

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPERIOD")
			for _, p := range periods {
				fmt.Fprintf(w, "%d\t%s\n", p.ID, p.Display(printer))
			}
			return w.Flush()
		},
	})

	return cmd
}

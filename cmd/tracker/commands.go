package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/tracker/internal/adapters/export"
	"github.com/okian/tracker/internal/domain/model"
	"github.com/okian/tracker/internal/domain/scoring"
	"github.com/okian/tracker/internal/records"
)

const deniedNotice = "access denied: the author account is read-only"

func (c *cli) signupCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account (asks for the e-mail verification code)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			acc, err := c.svc.Signup(ctx, c.username, c.password, email)
			if err != nil {
				return c.report(ctx, "signup", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s created\n", acc.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "e-mail address to verify")
	return cmd
}

func (c *cli) listCommand() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the records visible to the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := c.login(ctx)
			if err != nil {
				return c.report(ctx, "login", err)
			}
			// Rows are numbered by their place in the full visible list, the
			// index edit --row expects.
			recs, err := c.svc.List(ctx, sess, "")
			if err != nil {
				return c.report(ctx, "list", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "#\t%s\tTotal\n", strings.Join(model.Headers[:], "\t"))
			for _, i := range records.FilterIndex(recs, search) {
				r := recs[i]
				fmt.Fprintf(w, "%d\t%s\t%d\n", i, strings.Join(r.Cells(), "\t"), scoring.Total(r))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only names containing this text")
	return cmd
}

func (c *cli) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [NAME [STUDY SLEEP SCREEN ATTENDANCE STRESS EXERCISE PREVIOUS_SCORE]]",
		Short: "Append a record and save",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.login(ctx)
			if err != nil {
				return c.report(ctx, "login", err)
			}
			view, err := c.svc.Open(ctx, sess)
			if err != nil {
				return err
			}
			i := view.Append()
			if err := view.Set(i, model.RecordFromCells(args)); err != nil {
				return err
			}
			return c.save(cmd, sess, view)
		},
	}
}

func (c *cli) editCommand() *cobra.Command {
	var (
		row    int
		column string
		value  string
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change one cell of a record and save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			col, err := parseColumn(column)
			if err != nil {
				return err
			}
			sess, err := c.login(ctx)
			if err != nil {
				return c.report(ctx, "login", err)
			}
			view, err := c.svc.Open(ctx, sess)
			if err != nil {
				return err
			}
			if err := view.SetCell(row, col, value); err != nil {
				return c.report(ctx, "edit", err)
			}
			return c.save(cmd, sess, view)
		},
	}
	cmd.Flags().IntVar(&row, "row", 0, "record index as shown by list")
	cmd.Flags().StringVar(&column, "column", "", "column name or number (0 = Name)")
	cmd.Flags().StringVar(&value, "value", "", "new cell text")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

// parseColumn accepts a column number or a header name in any case, with or
// without spaces.
func parseColumn(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	want := strings.ReplaceAll(strings.ToLower(s), " ", "")
	for i, h := range model.Headers {
		if strings.ReplaceAll(strings.ToLower(h), " ", "") == want {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown column %q", records.ErrIndexOutOfRange, s)
}

func (c *cli) save(cmd *cobra.Command, sess model.Session, view *records.View) error {
	ctx := cmd.Context()
	out, err := c.svc.ApplyEdit(ctx, sess, view.Records())
	if err != nil {
		return c.report(ctx, "save", err)
	}
	return c.printOutcome(cmd, out, fmt.Sprintf("%d records saved", view.Len()))
}

func (c *cli) printOutcome(cmd *cobra.Command, out records.Outcome, saved string) error {
	if out == records.OutcomeDenied {
		fmt.Fprintln(cmd.OutOrStdout(), deniedNotice)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), saved)
	return nil
}

func (c *cli) rankCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rank",
		Short: "Show totals with the top and bottom students tagged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := c.login(ctx)
			if err != nil {
				return c.report(ctx, "login", err)
			}
			entries, err := c.svc.RequestChart(ctx, sess)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, export.ChartTitle(c.cfg.HighlightCount))
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", e.Rank, e.Name, e.Score, e.Tag())
			}
			return nil
		},
	}
}

func (c *cli) exportCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a PDF, text or XLSX chart report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			f, err := export.ParseFormat(format)
			if err != nil {
				return c.report(ctx, "export", err)
			}
			sess, err := c.login(ctx)
			if err != nil {
				return c.report(ctx, "login", err)
			}
			art, err := c.svc.RequestReport(ctx, sess, f)
			if err != nil {
				return c.report(ctx, "export", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s written (%d pages)\n", art.Path, art.Pages)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatPDF), "pdf, text or xlsx")
	return cmd
}

func (c *cli) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.xlsx",
		Short: "Append the rows of a spreadsheet and save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.login(ctx)
			if err != nil {
				return c.report(ctx, "login", err)
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			out, n, err := c.svc.ImportRecords(ctx, sess, f)
			if err != nil {
				return c.report(ctx, "import", err)
			}
			return c.printOutcome(cmd, out, fmt.Sprintf("%d records imported", n))
		},
	}
}

func (c *cli) seedCommand() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Append generated sample records and save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := c.login(ctx)
			if err != nil {
				return c.report(ctx, "login", err)
			}
			out, err := c.svc.Seed(ctx, sess, count)
			if err != nil {
				return c.report(ctx, "seed", err)
			}
			return c.printOutcome(cmd, out, fmt.Sprintf("%d sample records added", count))
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of records")
	return cmd
}

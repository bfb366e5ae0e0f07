package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"cantinho/internal/agenda"
	"cantinho/internal/dashboard"
	"cantinho/internal/remote"
	"cantinho/internal/session"
	"cantinho/internal/todo"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "cantinho",
		Short:         "Back office of the Cantinho do Saber tutoring school",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "print JSON instead of tables")
	root.PersistentFlags().StringVar(&c.tokenPath, "token-file", c.tokenPath, "where the session token is kept")

	root.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newAgendaCmd(c),
		newDashboardCmd(c),
		newRemindersCmd(c),
	)
	return root
}

func newLoginCmd(c *cli) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(c.errOut, "Senha: ")
			pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
			fmt.Fprintln(c.errOut)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			client := c.client()
			m, err := c.session(cmd.Context(), client)
			if err != nil {
				return err
			}
			user, err := m.SignIn(cmd.Context(), session.LoginRequest{Email: email, Password: string(pwd)})
			if err != nil {
				return err
			}

			c.printf("Signed in as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account e-mail")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.session(cmd.Context(), c.client())
			if err != nil {
				return err
			}
			m.SignOut(cmd.Context())
			c.printf("Signed out\n")
			return nil
		},
	}
}

func newAgendaCmd(c *cli) *cobra.Command {
	var (
		date string
		week bool
	)
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show the classes of a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}

			loc := c.cfg.Location()
			day := time.Now().In(loc)
			if date != "" {
				day, err = time.ParseInLocation(time.DateOnly, date, loc)
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
				}
			}

			if week {
				return c.printWeek(day)
			}

			vm := agenda.NewViewModel(client, loc, c.domainMetrics, c.logger)
			state, err := vm.SelectDate(cmd.Context(), day)
			if err != nil {
				if state.Error != "" {
					return fmt.Errorf("%s: %w", state.Error, err)
				}
				return err
			}
			return c.printAgenda(state)
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day to show (YYYY-MM-DD), default today")
	cmd.Flags().BoolVarP(&week, "week", "w", false, "list the days of the week around --date")
	return cmd
}

func (c *cli) printWeek(day time.Time) error {
	days := agenda.WeekOf(day)
	if c.jsonOut {
		return c.printJSON(days)
	}
	for _, d := range days {
		marker := " "
		if d.Format(time.DateOnly) == day.Format(time.DateOnly) {
			marker = "*"
		}
		c.printf("%s %s %s\n", marker, d.Format(time.DateOnly), d.Weekday())
	}
	return nil
}

func (c *cli) printAgenda(state agenda.State) error {
	if c.jsonOut {
		return c.printJSON(state)
	}

	c.printf("%s (%s)\n", state.Date, state.Day)
	if len(state.Upcoming)+len(state.Completed) == 0 {
		c.printf("Nenhuma aula agendada.\n")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HORÁRIO\tALUNOS\tSITUAÇÃO")
	writeClasses(tw, state.Upcoming, "próxima")
	writeClasses(tw, state.Completed, "realizada")
	return tw.Flush()
}

func writeClasses(tw *tabwriter.Writer, classes []remote.Class, label string) {
	for _, cl := range classes {
		names := make([]string, 0, len(cl.Students))
		for _, s := range cl.Students {
			names = append(names, s.Name)
		}
		fmt.Fprintf(tw, "%s-%s\t%s\t%s\n", cl.Start, cl.End, strings.Join(names, ", "), label)
	}
}

func newDashboardCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show today's numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}

			stats, err := dashboard.NewAggregator(client, c.cfg.Location(), c.domainMetrics, c.logger).Refresh(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load dashboard: %w", err)
			}
			if c.jsonOut {
				return c.printJSON(stats)
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Alunos\t%d\n", stats.TotalStudents)
			fmt.Fprintf(tw, "Materiais\t%d\n", stats.TotalMaterials)
			fmt.Fprintf(tw, "Aulas hoje\t%d\n", stats.TodayCount)
			fmt.Fprintf(tw, "Pagamentos pendentes\tR$ %s\n", stats.PendingTotal.StringFixed(2))
			fmt.Fprintf(tw, "Pagamentos recebidos\tR$ %s\n", stats.PaidTotal.StringFixed(2))
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(stats.RecentPayments) > 0 {
				c.printf("\nPagamentos recentes:\n")
				tw = tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
				for _, p := range stats.RecentPayments {
					fmt.Fprintf(tw, "%s\t%s\tR$ %s\t%s\n", p.Student.Name, p.ReferenceMonth, p.Amount.StringFixed(2), p.Status)
				}
				return tw.Flush()
			}
			return nil
		},
	}
}

func newRemindersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"todo"},
		Short:   "Manage the reminder list",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List reminders",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, release, err := c.reminders(cmd.Context())
				if err != nil {
					return err
				}
				defer release()

				items, err := store.List()
				if err != nil {
					return err
				}
				return c.printReminders(items)
			},
		},
		&cobra.Command{
			Use:   "add TEXT...",
			Short: "Add a reminder",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, release, err := c.reminders(cmd.Context())
				if err != nil {
					return err
				}
				defer release()

				r, err := store.Add(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				return c.printReminders([]todo.Reminder{r})
			},
		},
		&cobra.Command{
			Use:   "toggle ID",
			Short: "Mark a reminder done or not done",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid reminder ID %q", args[0])
				}
				store, release, err := c.reminders(cmd.Context())
				if err != nil {
					return err
				}
				defer release()

				r, err := store.Toggle(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.printReminders([]todo.Reminder{r})
			},
		},
		&cobra.Command{
			Use:   "remove ID",
			Short: "Delete a reminder",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid reminder ID %q", args[0])
				}
				store, release, err := c.reminders(cmd.Context())
				if err != nil {
					return err
				}
				defer release()

				return store.Remove(cmd.Context(), id)
			},
		},
	)
	return cmd
}

func (c *cli) printReminders(items []todo.Reminder) error {
	if c.jsonOut {
		if items == nil {
			items = []todo.Reminder{}
		}
		return c.printJSON(items)
	}
	for _, r := range items {
		box := "[ ]"
		if r.Done {
			box = "[x]"
		}
		c.printf("%s %s  %s\n", box, r.ID, r.Text)
	}
	return nil
}

func (c *cli) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

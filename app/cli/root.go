// Package cli implements the moodlehack management commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lysyi3m/moodlehack/app/answers"
	"github.com/lysyi3m/moodlehack/app/cfg"
	"github.com/lysyi3m/moodlehack/app/database"
)

// app carries what every command needs. The database is opened, and its
// schema brought up to date, on first use.
type app struct {
	dbPath string
	cfg    *cfg.Cfg
	db     *database.DB

	in  *bufio.Reader
	out io.Writer
}

// NewRootCmd builds the manage command tree reading prompts from in and
// writing to out.
func NewRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: bufio.NewReader(in), out: out}

	root := &cobra.Command{
		Use:           "manage",
		Short:         "moodlehack management commands",
		Version:       cfg.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := cfg.Load(nil)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("failed to load configuration")
			}
			if a.dbPath != "" {
				c.DBPath = a.dbPath
			}
			a.cfg = c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)
	root.PersistentFlags().StringVar(&a.dbPath, "db-path", "", "SQLite database file (overrides DB_PATH)")

	root.AddCommand(a.migrateCmd())
	root.AddCommand(a.migratePeriodsCmd())
	root.AddCommand(a.createUserCmd())
	root.AddCommand(a.categoryCmd())
	root.AddCommand(a.periodCmd())

	return root
}

func (a *app) database() (*database.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	db, err := database.Open(a.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if _, _, err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	a.db = db
	return db, nil
}

func (a *app) service() (*answers.Service, error) {
	db, err := a.database()
	if err != nil {
		return nil, err
	}
	return answers.NewService(
		database.NewAnswerRepository(db),
		database.NewCategoryRepository(db),
		database.NewPeriodRepository(db),
		answers.Paginator{PerPage: a.cfg.Site.PageSize},
	), nil
}

func (a *app) readLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm accepts only a literal "yes", in any case.
func (a *app) confirm(prompt string) (bool, error) {
	answer, err := a.readLine(prompt)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "yes"), nil
}

func (a *app) ok(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(a.out, format+"\n", args...)
}

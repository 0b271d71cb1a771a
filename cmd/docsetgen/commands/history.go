package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetgen/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int  `short:"n" default:"20" help:"Maximum number of runs to list"`
	All   bool `help:"List runs of every project, not only the current one"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	path := g.Settings.History.Path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		_, _ = fmt.Fprintln(g.Out, "No generation runs recorded")
		return nil
	}

	projectName := ""
	if !h.All {
		cfg, err := loadProject(g, root)
		if err != nil {
			return err
		}
		projectName = cfg.ProjectName()
	}

	store, err := history.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.List(context.Background(), projectName, h.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(g.Out, "No generation runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tPROJECT\tTRIGGER\tOUTCOME\tDURATION\tDETAIL")
	for _, r := range runs {
		detail := r.BundleID
		if r.ErrorCode != int(derrors.CodeNone) {
			detail = derrors.ErrorCode(r.ErrorCode).String()
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Started.Local().Format(time.DateTime),
			r.Project, r.Trigger, r.Outcome,
			r.Duration().Round(time.Millisecond),
			orDash(detail))
	}
	return tw.Flush()
}

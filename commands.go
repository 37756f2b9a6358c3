package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"reservas/models"
	"reservas/services/api"
	"reservas/services/booking"
	"reservas/utils"

	"go.uber.org/zap"
)

// describe renders command errors for the terminal.
func describe(err error) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return "not logged in or session expired; run `reservas login` and export AUTH_TOKEN"
	}
	return booking.UserMessage(err)
}

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func parseWindow(resourceID int, start, end string) (models.ReservationWindow, error) {
	if resourceID <= 0 || start == "" || end == "" {
		return models.ReservationWindow{}, errors.New("--resource, --start and --end are required")
	}
	from, err := utils.ParseUserInput(start, time.Local)
	if err != nil {
		return models.ReservationWindow{}, err
	}
	to, err := utils.ParseUserInput(end, time.Local)
	if err != nil {
		return models.ReservationWindow{}, err
	}
	return models.ReservationWindow{ResourceID: resourceID, Start: from, End: to}, nil
}

func (a *app) pingCmd(ctx context.Context, _ []string) error {
	resp, err := a.client.Ping(ctx)
	if err != nil {
		return err
	}
	fmt.Println(resp.Message)
	return nil
}

func (a *app) loginCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	if *email == "" || *password == "" {
		return errors.New("--email and --password are required")
	}

	resp, err := a.auth.Login(ctx, models.LoginCredentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	// The new token gets a fresh cache scope; drop anything left under it.
	if err := a.cache.Invalidate(ctx, ""); err != nil {
		a.logger.Warn("Cache reset failed", zap.Error(err))
	}

	if resp.User != nil {
		fmt.Printf("Logged in as %s <%s>\n", resp.User.Name, resp.User.Email)
		if resp.User.MustChangePassword {
			fmt.Println("This account must change its password before continuing.")
		}
	}
	fmt.Printf("export AUTH_TOKEN=%s\n", resp.AccessToken)
	return nil
}

func (a *app) logoutCmd(ctx context.Context, _ []string) error {
	// Invalidate while the session still selects this account's scope.
	if err := a.cache.Invalidate(ctx, ""); err != nil {
		a.logger.Warn("Cache reset failed", zap.Error(err))
	}
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func (a *app) meCmd(ctx context.Context, _ []string) error {
	u, err := a.auth.Me(ctx)
	if err != nil {
		return err
	}
	role := "user"
	if u.IsAdmin() {
		role = "admin"
	}
	fmt.Printf("#%d %s <%s> (%s)\n", u.ID, u.Name, u.Email, role)
	return nil
}

func (a *app) resourcesCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("resources", flag.ExitOnError)
	typeID := fs.Int("type", 0, "resource type id")
	available := fs.String("available", "", "true or false")
	_ = fs.Parse(args)

	filters := models.ResourceFilters{TypeID: *typeID}
	if *available != "" {
		v, err := strconv.ParseBool(*available)
		if err != nil {
			return fmt.Errorf("invalid --available %q", *available)
		}
		filters.Available = &v
	}

	list, err := a.resources.List(ctx, filters)
	if err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tLOCATION\tCAPACITY\tBOOKABLE")
	for _, r := range list {
		typeName := ""
		if r.Type != nil {
			typeName = r.Type.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%t\n", r.ID, r.Name, typeName, r.Location, r.Capacity, bool(r.GenerallyAvailable))
	}
	return w.Flush()
}

func (a *app) typesCmd(ctx context.Context, _ []string) error {
	types, err := a.resources.Types(ctx)
	if err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	for _, t := range types {
		fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Name, t.Description)
	}
	return w.Flush()
}

func (a *app) availabilityCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("availability", flag.ExitOnError)
	resourceID := fs.Int("resource", 0, "resource id")
	start := fs.String("start", "", "start (YYYY-MM-DD HH:mm)")
	end := fs.String("end", "", "end (YYYY-MM-DD HH:mm)")
	_ = fs.Parse(args)

	window, err := parseWindow(*resourceID, *start, *end)
	if err != nil {
		return err
	}
	availability, err := a.resources.Availability(ctx, window.ResourceID, utils.FormatLocal(window.Start), utils.FormatLocal(window.End))
	if err != nil {
		return err
	}
	if availability.Available {
		fmt.Println("Available")
		return nil
	}
	fmt.Println("Not available")
	for _, c := range availability.Conflicts {
		fmt.Printf("  %s  %s - %s\n", c.Requester, c.Start, c.End)
	}
	return nil
}

func (a *app) mineCmd(ctx context.Context, _ []string) error {
	list, err := a.reservations.Mine(ctx)
	if err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "ID\tRESOURCE\tSTART\tEND\tSTATUS")
	for _, r := range list {
		name := strconv.Itoa(r.ResourceID)
		if r.Resource != nil {
			name = r.Resource.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, name, r.Start, r.End, r.Status)
	}
	return w.Flush()
}

func (a *app) checkCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	resourceID := fs.Int("resource", 0, "resource id")
	start := fs.String("start", "", "start (YYYY-MM-DD HH:mm)")
	end := fs.String("end", "", "end (YYYY-MM-DD HH:mm)")
	_ = fs.Parse(args)

	window, err := parseWindow(*resourceID, *start, *end)
	if err != nil {
		return err
	}
	if err := window.Validate(); err != nil {
		return err
	}

	report, err := a.reservations.CheckConflicts(ctx, window.ResourceID, utils.FormatLocal(window.Start), utils.FormatLocal(window.End))
	if err != nil {
		return err
	}
	if !report.HasConflict {
		fmt.Println("No conflicts")
		return nil
	}
	fmt.Println("Conflicts:")
	for _, c := range report.Conflicts {
		fmt.Printf("  %s  %s - %s\n", c.Requester, c.Start, c.End)
	}
	return nil
}

func (a *app) bookCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	resourceID := fs.Int("resource", 0, "resource id")
	start := fs.String("start", "", "start (YYYY-MM-DD HH:mm)")
	end := fs.String("end", "", "end (YYYY-MM-DD HH:mm)")
	comments := fs.String("comments", "", "optional comments")
	_ = fs.Parse(args)

	window, err := parseWindow(*resourceID, *start, *end)
	if err != nil {
		return err
	}

	orchestrator := booking.NewOrchestrator(a.reservations, a.reservations,
		booking.WithLogger(a.logger),
		booking.WithStateObserver(func(s booking.State) {
			if s.Busy() {
				fmt.Printf("%s...\n", s)
			}
		}),
	)
	defer orchestrator.Close()

	created, err := orchestrator.Book(ctx, window, *comments)
	if err != nil {
		return err
	}
	fmt.Printf("Reservation #%d created: %s - %s\n", created.ID, created.Start, created.End)
	return nil
}

func (a *app) cancelCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	id := fs.Int("id", 0, "reservation id")
	_ = fs.Parse(args)

	if *id <= 0 {
		return errors.New("--id is required")
	}
	resp, err := a.reservations.Cancel(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Println(resp.Message)
	return nil
}

func (a *app) historyCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	id := fs.Int("id", 0, "reservation id")
	_ = fs.Parse(args)

	if *id <= 0 {
		return errors.New("--id is required")
	}
	logs, err := a.reservations.History(ctx, *id)
	if err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "WHEN\tACTION\tDETAIL")
	for _, l := range logs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", l.CreatedAt, l.Action, l.Detail)
	}
	return w.Flush()
}

func (a *app) statsCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	from := fs.String("from", "", "from date (YYYY-MM-DD)")
	to := fs.String("to", "", "to date (YYYY-MM-DD)")
	days := fs.Int("days", 0, "last N days, overrides --from and --to")
	_ = fs.Parse(args)

	if *days > 0 {
		now := time.Now()
		*from = utils.FormatDate(now.AddDate(0, 0, -*days))
		*to = utils.FormatDate(now)
	}

	stats, err := a.reservations.Stats(ctx, *from, *to)
	if err != nil {
		return err
	}
	fmt.Printf("Reservations: %d (active %d, cancelled %d)\n", stats.Totals.Total, stats.Totals.Active, stats.Totals.Cancelled)
	fmt.Printf("Average per user: %.2f, per resource: %.2f\n", stats.Averages.PerUser, stats.Averages.PerResource)
	for _, u := range stats.TopUsers {
		fmt.Printf("  %-30s %d\n", u.User, u.TotalReservations)
	}
	for _, t := range stats.ByResourceType {
		fmt.Printf("  [%s] %d\n", t.Type, t.TotalReservations)
	}
	return nil
}

func (a *app) usersCmd(ctx context.Context, _ []string) error {
	users, err := a.users.List(ctx)
	if err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tADMIN")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", u.ID, u.Name, u.Email, u.IsAdmin())
	}
	return w.Flush()
}

func (a *app) notificationsCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("notifications", flag.ExitOnError)
	read := fs.Int("read", 0, "mark one notification as read")
	readAll := fs.Bool("read-all", false, "mark every notification as read")
	_ = fs.Parse(args)

	switch {
	case *readAll:
		resp, err := a.notifications.MarkAllRead(ctx)
		if err != nil {
			return err
		}
		fmt.Println(resp.Message)
		return nil
	case *read > 0:
		resp, err := a.notifications.MarkRead(ctx, *read)
		if err != nil {
			return err
		}
		fmt.Println(resp.Message)
		return nil
	}

	list, err := a.notifications.List(ctx)
	if err != nil {
		return err
	}
	unread, err := a.notifications.Unread(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d unread\n", unread)
	w := table()
	fmt.Fprintln(w, "ID\tREAD\tWHEN\tTITLE\tMESSAGE")
	for _, n := range list {
		fmt.Fprintf(w, "%d\t%t\t%s\t%s\t%s\n", n.ID, bool(n.Read), n.CreatedAt, n.Title, n.Message)
	}
	return w.Flush()
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/adapter"
)

var (
	errNoCommand      = errors.New("no command given")
	errUnknownCommand = errors.New("unknown command")
	errMissingID      = errors.New("conflict id is required")
	errInconsistent   = errors.New("vault state is inconsistent")
)

const usage = `usage: syncctl [flags] <command> [args]

commands:
  status                 device, clock and event counts
  peers                  direct peers and shared-folder devices
  conflicts [-unresolved] list conflict records
  resolve <id>           mark a conflict resolved
  consistency            compare materialized state with the files on disk
  sync                   run every transport once`

type command func(ctx context.Context, client adapter.StatusClient, args []string, out io.Writer) error

var commands = map[string]command{
	"status":      statusCommand,
	"peers":       peersCommand,
	"conflicts":   conflictsCommand,
	"resolve":     resolveCommand,
	"consistency": consistencyCommand,
	"sync":        syncCommand,
}

func run(ctx context.Context, client adapter.StatusClient, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(out, usage)
		return errNoCommand
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintln(out, usage)
		return fmt.Errorf("%w: %s", errUnknownCommand, args[0])
	}
	return cmd(ctx, client, args[1:], out)
}

func statusCommand(ctx context.Context, client adapter.StatusClient, _ []string, out io.Writer) error {
	status, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%s)", status.DeviceName, status.DeviceID)))
	fmt.Fprintf(out, "vault:      %s\n", status.VaultID)
	fmt.Fprintf(out, "clock:      %s\n", status.Clock)
	fmt.Fprintf(out, "events:     %d\n", status.EventCount)
	fmt.Fprintf(out, "conflicts:  %d unresolved\n", status.UnresolvedConflicts)
	fmt.Fprintf(out, "peers:      %d connected\n", len(status.Peers))
	fmt.Fprintln(out, faintStyle.Render(fmt.Sprintf("build %s %s %s", status.Build.Version, status.Build.Commit, status.Build.Date)))
	return nil
}

func peersCommand(ctx context.Context, client adapter.StatusClient, _ []string, out io.Writer) error {
	peers, err := client.Peers(ctx)
	if err != nil {
		return fmt.Errorf("peers: %w", err)
	}

	fmt.Fprintln(out, titleStyle.Render("Direct peers"))
	if len(peers.Direct) == 0 {
		fmt.Fprintln(out, faintStyle.Render("none"))
	} else {
		t := newTable("ID", "NAME", "STATE", "SENT", "RECEIVED", "LAST SEEN", "ERROR")
		for _, p := range peers.Direct {
			t.Row(p.ID, p.DisplayName, string(p.State),
				strconv.FormatUint(p.EventsSent, 10), strconv.FormatUint(p.EventsReceived, 10),
				formatTime(p.LastSeen), p.LastError)
		}
		fmt.Fprintln(out, t.Render())
	}

	fmt.Fprintln(out, titleStyle.Render("Shared folder"))
	if len(peers.Presence) == 0 {
		fmt.Fprintln(out, faintStyle.Render("none"))
		return nil
	}
	t := newTable("ID", "NAME", "ONLINE", "NEEDS SYNC", "AHEAD", "EVENTS", "LAST SEEN")
	for _, p := range peers.Presence {
		t.Row(p.DeviceID, p.DeviceName, yesNo(p.Online), yesNo(p.NeedsSync), yesNo(p.Ahead),
			strconv.Itoa(p.EventCount), formatTime(p.LastSeen))
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func conflictsCommand(ctx context.Context, client adapter.StatusClient, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("conflicts", flag.ContinueOnError)
	fs.SetOutput(out)
	unresolved := fs.Bool("unresolved", false, "Only list unresolved conflicts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := client.Conflicts(ctx, *unresolved)
	if err != nil {
		return fmt.Errorf("conflicts: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, faintStyle.Render("no conflicts"))
		return nil
	}

	t := newTable("ID", "DOCUMENT", "ARTIFACT", "FROM", "AT", "RESOLVED")
	for _, c := range records {
		t.Row(c.ID, c.DocumentID, c.ArtifactPath, c.OriginDevice, formatTime(c.Timestamp), yesNo(c.Resolved))
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func resolveCommand(ctx context.Context, client adapter.StatusClient, args []string, out io.Writer) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errMissingID
	}
	if err := client.ResolveConflict(ctx, args[0]); err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	fmt.Fprintf(out, "conflict %s resolved\n", args[0])
	return nil
}

func consistencyCommand(ctx context.Context, client adapter.StatusClient, _ []string, out io.Writer) error {
	report, err := client.Consistency(ctx)
	if err != nil {
		return fmt.Errorf("consistency: %w", err)
	}

	fmt.Fprintf(out, "checked %d documents\n", report.Checked)
	if report.Consistent() {
		fmt.Fprintln(out, "consistent")
		return nil
	}

	t := newTable("DOCUMENT", "PATH", "ISSUE", "DETAIL")
	for _, issue := range report.Issues {
		t.Row(issue.DocumentID, issue.Path, issue.Kind, issue.Detail)
	}
	fmt.Fprintln(out, t.Render())
	return fmt.Errorf("%w: %d issues", errInconsistent, len(report.Issues))
}

func syncCommand(ctx context.Context, client adapter.StatusClient, _ []string, out io.Writer) error {
	if err := client.Sync(ctx); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	fmt.Fprintln(out, "sync round completed")
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

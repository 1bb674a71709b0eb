package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/hostcell/storage"
	"github.com/wippyai/hostcell/trace"
)

func main() {
	var (
		traceFile   = flag.String("trace", "", "Path to a JSONL borrow-event capture")
		typeFilter  = flag.String("type", "", "Only show events for this instance type")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *traceFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: borrowtrace -trace <capture.jsonl> [-type name]")
		fmt.Fprintln(os.Stderr, "       borrowtrace -trace <capture.jsonl> -i  (interactive mode)")
		os.Exit(1)
	}

	events, err := trace.DecodeFile(*traceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *typeFilter != "" {
		events = filterByType(events, *typeFilter)
	}

	if *interactive {
		if err := runInteractive(*traceFile, events); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	dump(events)
}

func filterByType(events []storage.Event, typeName string) []storage.Event {
	out := events[:0:0]
	for _, e := range events {
		if e.TypeName == typeName {
			out = append(out, e)
		}
	}
	return out
}

var (
	opStyles = map[storage.Op]lipgloss.Style{
		storage.OpConstructed:        lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		storage.OpBorrowShared:       lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		storage.OpBorrowExclusive:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		storage.OpBorrowInaccessible: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
		storage.OpBorrowReturned:     lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		storage.OpDestroyed:          lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
	plainStyle = lipgloss.NewStyle()
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func dump(events []storage.Event) {
	styled := term.IsTerminal(int(os.Stdout.Fd()))

	for _, e := range events {
		op := e.Op.String()
		site := ""
		if len(e.Sites) > 0 {
			site = e.Sites[len(e.Sites)-1]
		}
		line := fmt.Sprintf("%s %-20s %-24s %s refs=%d",
			e.Time.Format("15:04:05.000"), op, e.TypeName, e.Object, e.Refs)

		if styled {
			style, ok := opStyles[e.Op]
			if !ok {
				style = plainStyle
			}
			line = style.Render(line)
			if site != "" {
				site = dimStyle.Render(site)
			}
		}
		fmt.Println(line)
		if site != "" {
			fmt.Println("    " + site)
		}
	}

	summary := fmt.Sprintf("%d events", len(events))
	if styled {
		summary = dimStyle.Render(summary)
	}
	fmt.Println(summary)
}

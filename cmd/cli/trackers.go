package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"bookshelf/internal/calendar"
	"bookshelf/internal/challenge"
	"bookshelf/internal/goal"
	"bookshelf/internal/nextreads"
	"bookshelf/internal/viewmodel"
	"bookshelf/pkg/models"
)

func yearFlag(fs *flag.FlagSet) *int {
	return fs.Int("year", time.Now().Year(), "year")
}

// reportBulk prints per-unit failures of a bulk save and exits non-zero when any failed.
func reportBulk(what string, results []viewmodel.UnitResult, err error, msg string) {
	if err == nil {
		fmt.Printf("✅ %s saved\n", what)
		return
	}
	if failed := viewmodel.Failed(results); len(failed) > 0 {
		fmt.Fprintf(os.Stderr, "failed: %s\n", strings.Join(failed, ", "))
	}
	fail("save "+what, err, msg)
}

func (a *app) handleGoal(ctx context.Context, sub string, args []string) {
	fs := flag.NewFlagSet("goal "+sub, flag.ExitOnError)
	year := yearFlag(fs)
	target := fs.Int("target", 0, "number of books to read")
	_ = fs.Parse(args)

	u := a.requireUser(ctx)
	vm := goal.New(a.gw, a.log)
	if err := vm.Load(ctx, u.ID, *year); err != nil {
		fail("load goal", err, vm.Err())
	}

	switch sub {
	case "show":
		if !vm.HasTarget() {
			fmt.Printf("no goal set for %d\n", vm.Year())
		} else {
			fmt.Printf("%d: %d of %d books (%d%%)\n", vm.Year(), vm.Read(), vm.Target(), vm.Percent())
		}
		for _, g := range vm.Genres() {
			fmt.Printf("  %-16s %d\n", g.Genre, g.Count)
		}
		if top := vm.TopGenre(); top != "" {
			fmt.Printf("top genre: %s\n", top)
		}
	case "set":
		vm.SetTarget(*target)
		if err := vm.Save(ctx); err != nil {
			fail("save goal", err, vm.Err())
		}
		fmt.Printf("✅ goal for %d set to %d books\n", vm.Year(), vm.Target())
	default:
		log.Fatal("usage: bookshelf goal <show|set> [-target N] [-year Y]")
	}
}

func (a *app) handleChallenge(ctx context.Context, sub string, args []string) {
	fs := flag.NewFlagSet("az "+sub, flag.ExitOnError)
	year := yearFlag(fs)
	letter := fs.String("letter", "", "letter A-Z")
	title := fs.String("title", "", "book title for the letter")
	_ = fs.Parse(args)

	u := a.requireUser(ctx)
	vm := challenge.New(a.gw, a.log)
	if err := vm.Load(ctx, u.ID, *year); err != nil {
		fail("load challenge", err, vm.Err())
	}

	switch sub {
	case "show":
		for _, s := range vm.Slots() {
			mark := " "
			if s.Completed {
				mark = "x"
			}
			fmt.Printf("[%s] %s  %s\n", mark, s.Letter, s.Title)
		}
		fmt.Printf("%d/%d letters (%d%%)\n", vm.Completed(), challenge.Letters, vm.Percent())
	case "set":
		if err := vm.SetTitle(*letter, *title); err != nil {
			fail("set letter", err, vm.Err())
		}
		results, err := vm.Save(ctx)
		reportBulk("challenge", results, err, vm.Err())
	case "clear":
		if err := vm.Clear(ctx, *letter); err != nil {
			fail("clear letter", err, vm.Err())
		}
		fmt.Printf("✅ cleared %s\n", strings.ToUpper(*letter))
	default:
		log.Fatal("usage: bookshelf az <show|set|clear> [-letter L] [-title T] [-year Y]")
	}
}

func (a *app) handleCalendar(ctx context.Context, sub string, args []string) {
	fs := flag.NewFlagSet("calendar "+sub, flag.ExitOnError)
	year := yearFlag(fs)
	month := fs.Int("month", 0, "month 1-12")
	count := fs.String("count", "", "books read that month")
	_ = fs.Parse(args)

	u := a.requireUser(ctx)
	vm := calendar.New(a.gw, a.log)
	if err := vm.Load(ctx, u.ID, *year); err != nil {
		fail("load calendar", err, vm.Err())
	}

	switch sub {
	case "show":
		for _, m := range vm.Months() {
			fmt.Printf("%-4s %d\n", time.Month(m.Month).String()[:3], m.Count)
		}
		fmt.Printf("total: %d\n", vm.Total())
	case "set":
		if err := vm.SetMonth(*month, *count); err != nil {
			fail("set month", err, vm.Err())
		}
		results, err := vm.Save(ctx)
		reportBulk("calendar", results, err, vm.Err())
	default:
		log.Fatal("usage: bookshelf calendar <show|set> [-month M -count C] [-year Y]")
	}
}

func (a *app) handleNextReads(ctx context.Context, sub string, args []string) {
	fs := flag.NewFlagSet("next "+sub, flag.ExitOnError)
	var d nextreads.Draft
	fs.StringVar(&d.Title, "title", "", "title")
	fs.StringVar(&d.ImageURL, "image", "", "cover image URL")
	fs.StringVar(&d.Note, "note", "", "note")
	priority := fs.Int("priority", int(models.PriorityHigh), "priority 1 (high) to 3 (low)")
	id := fs.String("id", "", "entry id")
	_ = fs.Parse(args)
	d.Priority = models.Priority(*priority)

	u := a.requireUser(ctx)
	vm := nextreads.New(a.gw, a.log)
	if err := vm.Load(ctx, u.ID); err != nil {
		fail("load next reads", err, vm.Err())
	}

	switch sub {
	case "list":
		items := vm.Items()
		if len(items) == 0 {
			fmt.Println("wishlist is empty")
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPRIORITY\tNOTE")
		for _, n := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.ID, n.Title, nextreads.PriorityLabel(n.Priority), n.Note)
		}
		_ = w.Flush()
	case "add":
		if err := vm.Add(ctx, d); err != nil {
			fail("add next read", err, vm.Err())
		}
		fmt.Printf("✅ added %s, %d on the list\n", strings.TrimSpace(d.Title), len(vm.Items()))
	case "rm":
		if err := vm.Remove(ctx, models.ID(strings.TrimSpace(*id))); err != nil {
			fail("remove next read", err, vm.Err())
		}
		fmt.Println("✅ removed")
	default:
		log.Fatal("usage: bookshelf next <list|add|rm>")
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"bookshelf/internal/library"
	"bookshelf/internal/ratings"
	"bookshelf/pkg/models"
)

func (a *app) loadLibrary(ctx context.Context) *library.ViewModel {
	u := a.requireUser(ctx)
	vm := library.New(a.gw, a.log)
	if err := vm.Load(ctx, u.ID); err != nil {
		fail("load books", err, vm.Err())
	}
	return vm
}

func (a *app) handleBooks(ctx context.Context, sub string, args []string) {
	switch sub {
	case "list":
		fs := flag.NewFlagSet("books list", flag.ExitOnError)
		asJSON := fs.Bool("json", false, "print JSON")
		favOnly := fs.Bool("fav", false, "favorites only")
		_ = fs.Parse(args)

		entries := a.loadLibrary(ctx).Entries()
		if *favOnly {
			kept := entries[:0]
			for _, e := range entries {
				if e.Favorite {
					kept = append(kept, e)
				}
			}
			entries = kept
		}
		if *asJSON {
			printJSON(entries)
			return
		}
		printEntries(entries)
	case "add":
		fs := flag.NewFlagSet("books add", flag.ExitOnError)
		var d library.Draft
		fs.StringVar(&d.Title, "title", "", "title")
		fs.StringVar(&d.Author, "author", "", "author")
		fs.StringVar(&d.Genre, "genre", "", "genre")
		fs.StringVar(&d.CoverURL, "cover", "", "cover image URL")
		fs.IntVar(&d.ReadingDays, "days", 1, "days spent reading")
		fs.IntVar(&d.Stars, "stars", 3, "stars (1-5)")
		fs.IntVar(&d.Hearts, "hearts", 0, "hearts (0-5)")
		fs.IntVar(&d.Intensity, "fogos", 0, "spice level (0-5)")
		fs.IntVar(&d.Emotion, "humor", 0, "emotional impact (0-5)")
		_ = fs.Parse(args)

		vm := a.loadLibrary(ctx)
		e, err := vm.Create(ctx, d)
		if err != nil {
			fail("add book", err, vm.Err())
		}
		fmt.Printf("✅ added %s %s\n", e.Label, e.Title)
	case "edit":
		fs := flag.NewFlagSet("books edit", flag.ExitOnError)
		id := fs.String("id", "", "book id")
		title := fs.String("title", "", "title")
		author := fs.String("author", "", "author")
		genre := fs.String("genre", "", "genre")
		days := fs.Int("days", 0, "days spent reading")
		stars := fs.Int("stars", 0, "stars (1-5)")
		hearts := fs.Int("hearts", 0, "hearts (0-5)")
		_ = fs.Parse(args)

		vm := a.loadLibrary(ctx)
		cur, ok := vm.Get(models.ID(*id))
		if !ok {
			log.Fatalf("book %q not found", *id)
		}
		ed := library.Edit{
			Title: cur.Title, Author: cur.Author, Genre: cur.Genre,
			ReadingDays: cur.ReadingDays, Stars: cur.Stars, Hearts: cur.Hearts,
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "title":
				ed.Title = *title
			case "author":
				ed.Author = *author
			case "genre":
				ed.Genre = *genre
			case "days":
				ed.ReadingDays = *days
			case "stars":
				ed.Stars = *stars
			case "hearts":
				ed.Hearts = *hearts
			}
		})
		if err := vm.Edit(ctx, cur.ID, ed); err != nil {
			fail("edit book", err, vm.Err())
		}
		fmt.Printf("✅ updated %s\n", cur.Label)
	case "fav":
		vm, id := a.bookByID(ctx, "books fav", args)
		if err := vm.ToggleFavorite(ctx, id); err != nil {
			fail("toggle favorite", err, vm.Err())
		}
		e, _ := vm.Get(id)
		fmt.Printf("✅ %s favorite: %t\n", e.Title, e.Favorite)
	case "rm":
		vm, id := a.bookByID(ctx, "books rm", args)
		if err := vm.Delete(ctx, id); err != nil {
			fail("remove book", err, vm.Err())
		}
		fmt.Printf("✅ removed, %d books left\n", vm.Count())
	case "export":
		fs := flag.NewFlagSet("books export", flag.ExitOnError)
		format := fs.String("format", "json", "json or csv")
		out := fs.String("out", "", "output path (default data/books.<format>)")
		_ = fs.Parse(args)

		path := *out
		if path == "" {
			path = "data/books." + *format
		}
		entries := a.loadLibrary(ctx).Entries()
		var err error
		switch *format {
		case "json":
			err = writeJSON(path, entries)
		case "csv":
			err = writeCSV(path, entries)
		default:
			log.Fatalf("unknown format %q", *format)
		}
		if err != nil {
			log.Fatalf("export failed: %v", err)
		}
		fmt.Printf("✅ exported %d books to %s\n", len(entries), path)
	case "import":
		fs := flag.NewFlagSet("books import", flag.ExitOnError)
		in := fs.String("in", "data/books.csv", "input CSV path")
		_ = fs.Parse(args)

		drafts, err := readBooksCSV(*in)
		if err != nil {
			log.Fatalf("import failed: %v", err)
		}
		vm := a.loadLibrary(ctx)
		failed := 0
		for _, d := range drafts {
			if _, err := vm.Create(ctx, d); err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "skipped %q: %s\n", d.Title, vm.Err())
			}
		}
		fmt.Printf("✅ imported %d of %d books from %s\n", len(drafts)-failed, len(drafts), *in)
	default:
		log.Fatal("usage: bookshelf books <list|add|edit|fav|rm|export|import>")
	}
}

func (a *app) bookByID(ctx context.Context, name string, args []string) (*library.ViewModel, models.ID) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.String("id", "", "book id")
	_ = fs.Parse(args)

	vm := a.loadLibrary(ctx)
	e, ok := vm.Get(models.ID(strings.TrimSpace(*id)))
	if !ok {
		log.Fatalf("book %q not found", *id)
	}
	return vm, e.ID
}

func printEntries(entries []library.Entry) {
	if len(entries) == 0 {
		fmt.Println("no books yet")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tTITLE\tAUTHOR\tGENRE\tDAYS\tSTARS\tFAV")
	for _, e := range entries {
		fav := ""
		if e.Favorite {
			fav = "♥"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			e.Label, e.ID, e.Title, e.Author, e.Genre, e.ReadingDays, ratings.Stars(e.Stars), fav)
	}
	_ = w.Flush()
}

func handleRatings() {
	for _, r := range ratings.Guide() {
		fmt.Printf("%s  %s\n", ratings.Stars(r.Stars), r.Description)
	}
}

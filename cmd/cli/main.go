package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bookshelf/internal/gateway"
	"bookshelf/internal/logger"
	"bookshelf/internal/session"
	"bookshelf/internal/viewmodel"
	"bookshelf/pkg/database"
	"bookshelf/pkg/models"
	"bookshelf/pkg/utils"
)

type app struct {
	cfg     utils.ClientConfig
	log     *logger.Logger
	gw      *gateway.Client
	session *session.Store
	closers []func() error
}

func main() {
	utils.LoadEnvFile()
	cfg := utils.LoadClientConfig()

	global := flag.NewFlagSet("bookshelf", flag.ExitOnError)
	baseURL := global.String("api", "", "API base URL (skips base URL resolution)")
	sessionPath := global.String("session", cfg.SessionPath, "session file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	cfg.SessionPath = *sessionPath

	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	a, err := newApp(cfg, *baseURL)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cmd := args[0]
	sub := ""
	rest := []string{}
	if len(args) > 1 {
		sub = args[1]
		rest = args[2:]
	}

	switch cmd {
	case "login":
		a.handleLogin(ctx, args[1:])
	case "logout":
		a.handleLogout(ctx)
	case "whoami":
		a.handleWhoami(ctx)
	case "books":
		a.handleBooks(ctx, sub, rest)
	case "goal":
		a.handleGoal(ctx, sub, rest)
	case "az":
		a.handleChallenge(ctx, sub, rest)
	case "calendar":
		a.handleCalendar(ctx, sub, rest)
	case "next":
		a.handleNextReads(ctx, sub, rest)
	case "ratings":
		handleRatings()
	default:
		printUsage()
		os.Exit(1)
	}
}

func newApp(cfg utils.ClientConfig, baseURL string) (*app, error) {
	lg := logger.New(logger.Config{
		Format:      cfg.LogFormat,
		Environment: cfg.Environment,
		Level:       logger.ParseLevel(cfg.LogLevel),
	})

	a := &app{cfg: cfg, log: lg}
	if strings.TrimSpace(baseURL) != "" {
		a.gw = gateway.NewWithHTTPClient(baseURL, nil, lg)
	} else {
		a.gw = gateway.New(gateway.Config{
			OverrideURL:  cfg.APIBaseURL,
			Production:   cfg.Production(),
			FrontendHost: cfg.FrontendHost,
			Timeout:      cfg.HTTPTimeout,
		}, lg)
	}

	storage, err := a.openStorage()
	if err != nil {
		return nil, err
	}
	a.session = session.New(a.gw, storage, lg)
	return a, nil
}

func (a *app) openStorage() (session.Storage, error) {
	switch a.cfg.SessionBackend {
	case "", "file":
		return session.NewFileStorage(a.cfg.SessionPath), nil
	case "sqlite":
		path := strings.TrimSuffix(a.cfg.SessionPath, filepath.Ext(a.cfg.SessionPath)) + ".db"
		db, err := database.Open(database.Config{Path: path})
		if err != nil {
			return nil, fmt.Errorf("open session db: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		st, err := session.NewSQLiteStorage(db)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", a.cfg.SessionBackend)
	}
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn("close failed", "error", err)
		}
	}
}

// requireUser bootstraps the session and exits unless a user is signed in.
func (a *app) requireUser(ctx context.Context) models.User {
	if a.session.Bootstrap(ctx) != session.Active {
		if msg := a.session.Err(); msg != "" {
			log.Fatalf("%s", msg)
		}
		log.Fatal("not signed in, run: bookshelf login -name NAME")
	}
	u, _ := a.session.Identity()
	return u
}

func (a *app) handleLogin(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	name := fs.String("name", "", "your name")
	_ = fs.Parse(args)

	if a.session.Bootstrap(ctx) == session.Active {
		if err := a.session.Logout(ctx); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
	}
	if err := a.session.Submit(ctx, *name); err != nil {
		log.Fatalf("login failed: %s", a.session.Err())
	}
	u, _ := a.session.Identity()
	fmt.Printf("✅ signed in as %s (id %s)\n", u.Name, u.ID)
}

func (a *app) handleLogout(ctx context.Context) {
	if err := a.session.Logout(ctx); err != nil {
		log.Fatalf("logout failed: %v", err)
	}
	fmt.Println("✅ logged out")
}

func (a *app) handleWhoami(ctx context.Context) {
	u := a.requireUser(ctx)
	fmt.Printf("%s (id %s) via %s\n", u.Name, u.ID, a.gw.BaseURL())
}

// fail prints the user-facing message for err and exits.
func fail(op string, err error, fallback string) {
	log.Fatalf("%s: %s", op, viewmodel.MessageFor(err, fallback))
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func printUsage() {
	fmt.Println("bookshelf [-api URL] [-session PATH] <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  login -name NAME | logout | whoami")
	fmt.Println("  books list|add|edit|fav|rm|export|import")
	fmt.Println("  goal show|set")
	fmt.Println("  az show|set|clear")
	fmt.Println("  calendar show|set")
	fmt.Println("  next list|add|rm")
	fmt.Println("  ratings")
}

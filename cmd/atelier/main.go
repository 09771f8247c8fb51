package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/atelier/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	apiBase := flag.String("api", "", "gateway base URL (optional, overrides config)")
	userID := flag.Int64("user", 0, "user id for the cart (optional, overrides config)")
	pollSeconds := flag.Int("poll", 0, "cart refresh interval in seconds (optional, defaults to 15s)")
	var settings []string
	flag.Func("set", "update a site setting on the gateway as key=value and exit (repeatable)", func(v string) error {
		settings = append(settings, v)
		return nil
	})
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		APIBase:    *apiBase,
	}
	if id := *userID; id > 0 {
		opts.UserID = id
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if len(settings) > 0 {
		site, err := app.UpdateSite(ctx, opts, settings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "atelier: %v\n", err)
			return 1
		}
		fmt.Printf("site %q updated (search %t, categories %t, page size %d)\n",
			site.SiteName, site.EnableSearch, site.EnableCategories, site.MaxCollectionsPerPage)
		return 0
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "atelier: %v\n", err)
		return 1
	}
	return 0
}

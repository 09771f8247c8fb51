package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/five82/atelier/internal/cart"
	"github.com/five82/atelier/internal/catalog"
	"github.com/five82/atelier/internal/config"
	"github.com/five82/atelier/internal/diag"
	"github.com/five82/atelier/internal/masterpieces"
	"github.com/five82/atelier/internal/notify"
	"github.com/five82/atelier/internal/prefs"
	"github.com/five82/atelier/internal/ui"
)

// Options configure the atelier application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/atelier/prefs.toml
	APIBase    string // overrides config when set
	UserID     int64  // overrides config when positive
	PollEvery  int    // seconds; zero uses config
}

// Run boots the atelier TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = applyOptions(cfg, opts)

	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.Printf("app: prefs unavailable, using defaults: %v", err)
	}

	client, err := masterpieces.NewClient(cfg.APIBase, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init gateway client: %w", err)
	}
	log.Printf("app: starting against %s as user %d", client.BaseURL(), cfg.UserID)

	toasts := notify.NewCenter()
	browser := catalog.NewBrowser(client, catalog.NewCache(cfg.CacheTTL), toasts)
	bus := cart.NewBus()
	cartState := cart.New(cfg.UserID, client, bus, toasts)
	defer cartState.Close()

	site := initialLoad(ctx, client, browser, cartState)

	if cfg.UserID > 0 {
		StartPoller(ctx, cartState, cfg.PollInterval)
	} else {
		log.Printf("app: no user id configured; cart disabled")
	}

	category, _ := masterpieces.ParseCategory(userPrefs.Category)
	return ui.Run(ui.Options{
		Context:     ctx,
		Client:      client,
		CartGateway: client,
		Browser:     browser,
		Cart:        cartState,
		Bus:         bus,
		Toasts:      toasts,
		Site:        site,
		Config:      &cfg,
		ThemeName:   userPrefs.Theme,
		Category:    category,
		PrefsPath:   opts.PrefsPath,
	})
}

func applyOptions(cfg config.Config, opts Options) config.Config {
	if opts.APIBase != "" {
		cfg.APIBase = opts.APIBase
	}
	if opts.UserID > 0 {
		cfg.UserID = opts.UserID
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}
	return cfg
}

// openLog routes the standard logger to path so it does not draw over the
// terminal UI.
func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return tea.LogToFile(path, diag.Prefix)
}

type siteFetcher interface {
	FetchConfig(ctx context.Context) (masterpieces.SiteConfig, error)
}

type browseLoader interface {
	Load(ctx context.Context, forceRefresh bool) error
}

type cartLoader interface {
	UserID() int64
	Refresh(ctx context.Context) error
}

// initialLoad fetches the collections, the cart and the site config in
// parallel. Failures are already recorded by each component, so they are
// only logged here; the site config falls back to the defaults.
func initialLoad(ctx context.Context, site siteFetcher, browser browseLoader, cartState cartLoader) masterpieces.SiteConfig {
	cfg := masterpieces.DefaultSiteConfig()

	var g errgroup.Group
	g.Go(func() error {
		if err := browser.Load(ctx, false); err != nil {
			return fmt.Errorf("collections: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if cartState.UserID() <= 0 {
			return nil
		}
		if err := cartState.Refresh(ctx); err != nil {
			return fmt.Errorf("cart: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		fetched, err := site.FetchConfig(ctx)
		if err != nil {
			return fmt.Errorf("site config: %w", err)
		}
		cfg = mergeSite(cfg, fetched)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("app: initial load incomplete: %v", err)
	}
	return cfg
}

// mergeSite keeps defaults for fields the gateway left blank. Omitted
// booleans already decode to their defaults, so sent ones are taken as is.
func mergeSite(base, fetched masterpieces.SiteConfig) masterpieces.SiteConfig {
	if fetched.SiteName != "" {
		base.SiteName = fetched.SiteName
	}
	if fetched.HeroTitle != "" {
		base.HeroTitle = fetched.HeroTitle
	}
	if fetched.HeroSubtitle != "" {
		base.HeroSubtitle = fetched.HeroSubtitle
	}
	if fetched.MaxCollectionsPerPage > 0 {
		base.MaxCollectionsPerPage = fetched.MaxCollectionsPerPage
	}
	if fetched.DefaultCategory != "" {
		base.DefaultCategory = fetched.DefaultCategory
	}
	if fetched.Theme != "" {
		base.Theme = fetched.Theme
	}
	if fetched.Language != "" {
		base.Language = fetched.Language
	}
	base.EnableSearch = fetched.EnableSearch
	base.EnableCategories = fetched.EnableCategories
	return base
}

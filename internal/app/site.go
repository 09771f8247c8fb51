package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/atelier/internal/config"
	"github.com/five82/atelier/internal/masterpieces"
)

type siteUpdater interface {
	UpdateConfig(ctx context.Context, patch map[string]any) (masterpieces.SiteConfig, error)
}

// UpdateSite sends key=value assignments as a partial site config update
// and returns the gateway's resulting config. It does not start the UI.
func UpdateSite(ctx context.Context, opts Options, assignments []string) (masterpieces.SiteConfig, error) {
	patch, err := parseAssignments(assignments)
	if err != nil {
		return masterpieces.SiteConfig{}, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return masterpieces.SiteConfig{}, fmt.Errorf("load config: %w", err)
	}
	cfg = applyOptions(cfg, opts)

	client, err := masterpieces.NewClient(cfg.APIBase, cfg.RequestTimeout)
	if err != nil {
		return masterpieces.SiteConfig{}, fmt.Errorf("init gateway client: %w", err)
	}
	return pushSite(ctx, client, patch)
}

func pushSite(ctx context.Context, gateway siteUpdater, patch map[string]any) (masterpieces.SiteConfig, error) {
	site, err := gateway.UpdateConfig(ctx, patch)
	if err != nil {
		return masterpieces.SiteConfig{}, fmt.Errorf("update site config: %w", err)
	}
	return site, nil
}

// parseAssignments turns key=value pairs into a JSON patch. Booleans and
// integers are sent typed; everything else as a string.
func parseAssignments(assignments []string) (map[string]any, error) {
	if len(assignments) == 0 {
		return nil, fmt.Errorf("no settings given")
	}
	patch := make(map[string]any, len(assignments))
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("setting %q: want key=value", a)
		}
		value = strings.TrimSpace(value)
		if b, err := strconv.ParseBool(value); err == nil {
			patch[key] = b
			continue
		}
		if n, err := strconv.Atoi(value); err == nil {
			patch[key] = n
			continue
		}
		patch[key] = value
	}
	return patch, nil
}

package app

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/five82/atelier/internal/fakegateway"
)

func TestParseAssignments(t *testing.T) {
	patch, err := parseAssignments([]string{"siteName=Moon Prints", "enableSearch=false", "maxCollectionsPerPage=12"})
	if err != nil {
		t.Fatalf("parseAssignments returned error: %v", err)
	}
	if patch["siteName"] != "Moon Prints" || patch["enableSearch"] != false || patch["maxCollectionsPerPage"] != 12 {
		t.Fatalf("patch = %#v", patch)
	}

	for _, bad := range [][]string{nil, {"novalue"}, {"=x"}} {
		if _, err := parseAssignments(bad); err == nil {
			t.Fatalf("parseAssignments(%q) should fail", bad)
		}
	}
}

func TestUpdateSite_AppliesPartialPatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("HOME", t.TempDir())
	{
		dir := t.TempDir()
		wd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chdir(wd) })
	}

	store := fakegateway.NewStore(fakegateway.DefaultSeed())
	srv := httptest.NewServer(fakegateway.NewRouter(store))
	defer srv.Close()

	before := store.Site()
	site, err := UpdateSite(context.Background(), Options{APIBase: srv.URL}, []string{"siteName=Moon Prints", "enableSearch=false"})
	if err != nil {
		t.Fatalf("UpdateSite returned error: %v", err)
	}
	if site.SiteName != "Moon Prints" || site.EnableSearch {
		t.Fatalf("site = %#v", site)
	}
	if site.HeroTitle != before.HeroTitle {
		t.Fatalf("HeroTitle = %q, want untouched %q", site.HeroTitle, before.HeroTitle)
	}
	if store.Site().SiteName != "Moon Prints" {
		t.Fatalf("store not updated: %#v", store.Site())
	}
}

func TestUpdateSite_RejectsBadAssignment(t *testing.T) {
	if _, err := UpdateSite(context.Background(), Options{}, []string{"oops"}); err == nil {
		t.Fatalf("UpdateSite should reject assignments without '='")
	}
}

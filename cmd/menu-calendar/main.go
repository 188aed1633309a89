package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"school-menu-calendar/internal/app"
	"school-menu-calendar/internal/cache"
	"school-menu-calendar/internal/calendar"
	"school-menu-calendar/internal/capture"
	"school-menu-calendar/internal/config"
	"school-menu-calendar/internal/database"
	"school-menu-calendar/internal/feed"
	"school-menu-calendar/internal/menu"
	"school-menu-calendar/internal/metrics"
	"school-menu-calendar/internal/preferences"
	"school-menu-calendar/internal/sharecode"
	"school-menu-calendar/internal/suggest"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if os.Args[1] == "themes" {
		writeThemes(os.Stdout, time.Now().Month())
		return
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	feedCache := cache.NewStore(db.SQL, cfg.CacheTTL)
	metricsStore := metrics.NewStore(db.SQL)

	prefStore, err := preferences.NewStore(cfg.PreferencesPath)
	if err != nil {
		log.Fatalf("Failed to initialize preferences: %v", err)
	}

	client := feed.NewClient(cfg, feedCache)

	switch os.Args[1] {
	case "render":
		renderCmd := flag.NewFlagSet("render", flag.ExitOnError)
		month := renderCmd.String("month", "", "Month to render as YYYY-MM (default: current month)")
		out := renderCmd.String("out", "", "Output file (default: menu-YYYY-MM.html)")
		renderCmd.Parse(os.Args[2:])

		requireIDs(cfg.RequireBuilding())
		render(ctx, cfg, client, prefStore, metricsStore, *month, *out)

	case "render-offline":
		offlineCmd := flag.NewFlagSet("render-offline", flag.ExitOnError)
		har := offlineCmd.String("har", "", "Browser network capture (.har) of the menu page")
		month := offlineCmd.String("month", "", "Month to render as YYYY-MM (default: current month)")
		out := offlineCmd.String("out", "", "Output file (default: menu-YYYY-MM.html)")
		offlineCmd.Parse(os.Args[2:])

		if *har == "" {
			log.Fatal("render-offline requires -har")
		}
		loader, err := capture.Open(*har)
		if err != nil {
			log.Fatalf("Failed to load capture: %v", err)
		}
		render(ctx, cfg, loader, prefStore, metricsStore, *month, *out)

	case "lookup":
		lookupCmd := flag.NewFlagSet("lookup", flag.ExitOnError)
		code := lookupCmd.String("code", "", "Public district identifier")
		lookupCmd.Parse(os.Args[2:])

		district, err := client.FetchDistrictLookup(ctx, *code)
		if err != nil {
			log.Fatalf("Lookup failed: %v", err)
		}
		fmt.Printf("District: %s (%s)\n", district.Name, district.ID)
		for _, b := range district.Buildings {
			fmt.Printf("  %s  %s\n", b.ID, b.Name)
		}

	case "allergens":
		requireIDs(cfg.RequireDistrict())
		catalog, err := client.FetchAllergenCatalog(ctx, cfg.DistrictID)
		if err != nil {
			log.Fatalf("Failed to fetch allergens: %v", err)
		}
		prefs, err := prefStore.Load()
		if err != nil {
			log.Fatalf("Failed to load preferences: %v", err)
		}
		selected := make(map[string]bool)
		for _, id := range prefs.AllergenIDs {
			selected[id] = true
		}
		for _, a := range catalog {
			mark := " "
			if selected[a.ID] {
				mark = "x"
			}
			fmt.Printf("[%s] %-20s %s\n", mark, a.Name, a.ID)
		}

	case "suggest-labels":
		suggestCmd := flag.NewFlagSet("suggest-labels", flag.ExitOnError)
		url := suggestCmd.String("url", "", "Calendar page listing rotation days (default: saved suggestion_url)")
		save := suggestCmd.Bool("save", false, "Store the suggested cycle in preferences")
		suggestCmd.Parse(os.Args[2:])

		suggestLabels(ctx, prefStore, *url, *save)

	case "cache-cleanup":
		removed, err := feedCache.Cleanup(ctx)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d expired cache entries.\n", removed)

	case "metrics":
		metricsCmd := flag.NewFlagSet("metrics", flag.ExitOnError)
		days := metricsCmd.Int("days", 7, "Report the last N days")
		cleanup := metricsCmd.Int("cleanup", 0, "Delete records older than N days first (0 keeps all)")
		metricsCmd.Parse(os.Args[2:])

		if *cleanup > 0 {
			affected, err := metricsStore.Cleanup(ctx, *cleanup)
			if err != nil {
				log.Fatalf("Cleanup failed: %v", err)
			}
			fmt.Printf("Successfully removed %d old metric records.\n", affected)
		}

		usage, err := metricsStore.GetDailyUsage(ctx, *days)
		if err != nil {
			log.Fatalf("Failed to read metrics: %v", err)
		}
		if len(usage) == 0 {
			fmt.Println("No generations recorded.")
		}
		for _, u := range usage {
			fmt.Printf("%s  %3d generated  avg %4dms  %d month(s)\n", u.Date, u.Generations, u.AvgLatencyMS, u.DistinctMonths)
		}
		for _, line := range metrics.GetSysHealth(filepath.Dir(cfg.DatabasePath)).Lines() {
			fmt.Println(line)
		}

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func render(ctx context.Context, cfg *config.Config, source feed.Source, prefs *preferences.Store, recorder *metrics.Store, month, out string) {
	year, m, err := parseMonth(month, time.Now())
	if err != nil {
		log.Fatalf("Invalid -month: %v", err)
	}

	gen := app.NewGenerator(cfg, source, prefs, sharecode.NewGenerator(sharecode.DefaultSize), recorder)
	res, err := gen.Generate(ctx, app.Request{Year: year, Month: m})
	if err != nil {
		if feed.IsKind(err, feed.KindFetchFailed) {
			log.Fatalf("Menu service unreachable: %v\nSave the menu page as a .har file and use render-offline.", err)
		}
		log.Fatalf("Failed to generate calendar: %v", err)
	}

	if out == "" {
		out = res.FileName
	}
	if err := os.WriteFile(out, []byte(res.HTML), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", out, err)
	}
	fmt.Printf("✅ Wrote %s (%d school days)\n", out, len(res.Month.SchoolDays()))
}

func suggestLabels(ctx context.Context, store *preferences.Store, url string, save bool) {
	prefs, err := store.Load()
	if err != nil {
		log.Fatalf("Failed to load preferences: %v", err)
	}
	if url == "" {
		url = prefs.SuggestionURL
	}
	if url == "" {
		log.Fatal("suggest-labels requires -url or a saved suggestion_url")
	}

	suggestions, err := suggest.NewScraper().Fetch(ctx, url)
	if err != nil {
		log.Fatalf("Failed to fetch suggestions: %v", err)
	}
	cycle, anchor := suggest.ToCycle(suggestions)
	if len(cycle) == 0 {
		fmt.Println("No day labels found on that page.")
		return
	}

	for _, l := range cycle {
		fmt.Printf("%-10s %s\n", l.Label, l.Color)
	}
	if anchor != nil {
		fmt.Printf("Anchor: %s (%s)\n", menu.DateKey(*anchor), cycle[0].Label)
	}

	if !save {
		return
	}
	prefs.DayLabels = cycle
	prefs.SuggestionURL = url
	prefs.DayLabelAnchor = ""
	if anchor != nil {
		prefs.DayLabelAnchor = menu.DateKey(*anchor)
	}
	if err := store.Save(prefs); err != nil {
		log.Fatalf("Failed to save preferences: %v", err)
	}
	fmt.Println("Saved day-label cycle to preferences.")
}

func parseMonth(s string, now time.Time) (int, time.Month, error) {
	if s == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}

// requireIDs exits when a command is missing the district or building id.
func requireIDs(err error) {
	if err != nil {
		log.Fatalf("%v\nRun `menu-calendar lookup -code <district code>` to find your ids.", err)
	}
}

func writeThemes(w io.Writer, month time.Month) {
	for _, th := range calendar.Themes() {
		var months []string
		for _, m := range th.SuggestedMonths {
			months = append(months, m.String()[:3])
		}
		fmt.Fprintf(w, "%s %-18s %-9s %v\n", th.Emoji, th.Name, th.Category, months)
	}
	suggested := calendar.SuggestedTheme(month)
	fmt.Fprintf(w, "\nSuggested for %s: %s %s\n", month, suggested.Emoji, suggested.Name)
}

func printUsage() {
	fmt.Println("Usage: menu-calendar <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  render          Fetch the month's menu and write the printable calendar")
	fmt.Println("  render-offline  Same, from a saved browser capture (-har)")
	fmt.Println("  lookup          Resolve a district code to its buildings (-code)")
	fmt.Println("  allergens       List the district's allergens and your selection")
	fmt.Println("  suggest-labels  Scrape rotating day labels from a calendar page (-url, -save)")
	fmt.Println("  themes          List built-in themes")
	fmt.Println("  cache-cleanup   Delete expired feed cache entries")
	fmt.Println("  metrics         Show recent generation metrics (-days, -cleanup)")
}

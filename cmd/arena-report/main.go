// Path: cmd/arena-report/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"arena-scout/internal/config"
	"arena-scout/internal/domain"
	"arena-scout/internal/errs"
	"arena-scout/internal/export"
	"arena-scout/internal/fetcher"
	"arena-scout/internal/search"
	"arena-scout/internal/storage"
	"arena-scout/internal/trend"
	"arena-scout/internal/validate"
)

var (
	flagLimit    int
	flagTracks   []string
	flagCountry  []string
	flagSearch   string
	flagTeamSize string
	flagMinLikes int
	flagExport   string
	flagTrending string
	flagOffline  bool
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:           "arena-report",
	Short:         "Fetch hackathon projects, snapshot them locally, and print a report",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.IntVar(&flagLimit, "limit", 25, "maximum number of projects in the report")
	flags.StringSliceVar(&flagTracks, "track", nil, "only include projects in these tracks")
	flags.StringSliceVar(&flagCountry, "country", nil, "only include projects from these countries")
	flags.StringVar(&flagSearch, "search", "", "text search over name and description")
	flags.StringVar(&flagTeamSize, "team-size", "", "team size filter, N or MIN-MAX")
	flags.IntVar(&flagMinLikes, "min-likes", 0, "only include projects with at least this many likes")
	flags.StringVar(&flagExport, "export", "", "write the report to a file: csv, json, or markdown")
	flags.StringVar(&flagTrending, "trending", "", "append a trending section: 1h, 24h, 7d, 30d, or all")
	flags.BoolVar(&flagOffline, "offline", false, "skip fetching and report from the local snapshot store")
	flags.BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if !flagVerbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := storage.OpenSnapshotStore(cfg.Snapshots.Path)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()

	projects, err := loadProjects(ctx, cfg, store, logger)
	if err != nil {
		return err
	}

	engine := search.NewEngine(projects)
	spec := specFromFlags()
	results := engine.Search(spec)

	printReport(os.Stdout, results, flagLimit)

	if flagExport != "" {
		if err := exportReport(results, cfg.Arena.PublicURL); err != nil {
			return err
		}
	}

	if flagTrending != "" {
		period, err := trend.ParsePeriod(flagTrending)
		if err != nil {
			return err
		}
		aggregator := trend.NewAggregator(store, logger)
		printTrending(os.Stdout, aggregator.Compute(ctx, period, flagLimit), period)
	}
	return nil
}

// loadProjects either fetches a fresh dataset (recording a snapshot) or,
// in offline mode, reconstructs the latest snapshot from the local store.
func loadProjects(ctx context.Context, cfg *config.Config, store *storage.SnapshotStore, logger zerolog.Logger) ([]domain.Project, error) {
	if flagOffline {
		projects, err := store.LatestProjects(ctx)
		if err != nil {
			return nil, fmt.Errorf("load offline snapshot: %w", err)
		}
		if len(projects) == 0 {
			return nil, fmt.Errorf("%w: run once without --offline first", errs.ErrNoCachedData)
		}
		logger.Debug().Int("projects", len(projects)).Msg("loaded offline snapshot")
		return projects, nil
	}

	client := fetcher.NewClient(cfg.Arena, logger)
	raw, err := client.FetchProjects(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrAuth) {
			return nil, fmt.Errorf("arena API rejected the request: %w", err)
		}
		return nil, fmt.Errorf("fetch projects: %w", err)
	}

	projects, dropped := validate.ValidateAll(raw)
	if dropped > 0 {
		logger.Warn().Int("dropped", dropped).Msg("dropped invalid project records")
	}
	if len(projects) == 0 {
		return nil, errs.ErrEmptyPayload
	}

	if err := store.RecordSnapshot(ctx, projects, time.Now()); err != nil {
		logger.Warn().Err(err).Msg("failed to record snapshot, trends will lag")
	}
	logger.Debug().Int("projects", len(projects)).Msg("fetched and snapshotted")
	return projects, nil
}

func specFromFlags() search.FilterSpec {
	spec := search.DefaultSpec()
	spec.Search = flagSearch
	spec.Tracks = flagTracks
	spec.Countries = flagCountry
	if r, ok := parseTeamSize(flagTeamSize); ok {
		spec.TeamSizeRange = r
	}
	if flagMinLikes > 0 {
		spec.LikesRange = [2]int{flagMinLikes, int(^uint(0) >> 1)}
	}
	return spec
}

// parseTeamSize accepts "N" (exactly N members) or "MIN-MAX".
func parseTeamSize(s string) ([2]int, bool) {
	if s == "" {
		return [2]int{}, false
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return [2]int{n, n}, true
	}
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		return [2]int{}, false
	}
	min, err1 := strconv.Atoi(lo)
	max, err2 := strconv.Atoi(hi)
	if err1 != nil || err2 != nil || min < 1 || min > max {
		return [2]int{}, false
	}
	return [2]int{min, max}, true
}

func printReport(out *os.File, results []domain.Project, limit int) {
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	fmt.Fprintf(out, "%d projects\n\n", len(results))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tLIKES\tCOMMENTS\tTEAM\tCOUNTRY\tTRACKS")
	for i, p := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\t%s\n",
			i+1, truncate(p.Name, 40), p.Likes, p.Comments, p.TeamSize(),
			p.Country, truncate(strings.Join(p.Tracks, ", "), 40))
	}
	w.Flush()
}

func printTrending(out *os.File, records []domain.TrendRecord, period trend.Period) {
	fmt.Fprintf(out, "\nTrending (%s)\n\n", period)
	if len(records) == 0 {
		fmt.Fprintln(out, "no projects gained likes or comments in this window")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLIKES\tΔLIKES\tΔCOMMENTS\tSNAPSHOTS")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%d\t%+d\t%+d\t%d\n",
			truncate(r.Project.Name, 40), r.CurrentLikes, r.LikesChange, r.CommentsChange, len(r.History))
	}
	w.Flush()
}

func exportReport(results []domain.Project, arenaBase string) error {
	var (
		filename string
		write    func(f *os.File) error
	)
	switch flagExport {
	case "csv":
		filename = "arena-projects.csv"
		write = func(f *os.File) error { return export.WriteCSV(f, results, arenaBase) }
	case "json":
		filename = "arena-projects.json"
		write = func(f *os.File) error { return export.WriteJSON(f, results, arenaBase, time.Now()) }
	case "markdown":
		filename = "arena-projects.md"
		write = func(f *os.File) error { return export.WriteMarkdown(f, results) }
	default:
		return fmt.Errorf("unknown export format %q (want csv, json, or markdown)", flagExport)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", filename)
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

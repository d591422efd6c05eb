package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"NewsAgent/internal/aggregate"
	"NewsAgent/internal/app"
	"NewsAgent/internal/config"
	"NewsAgent/internal/export"
	"NewsAgent/internal/logging"
	"NewsAgent/internal/ports"
)

var (
	watchMode      bool
	exportFormat   string
	filterSource   string
	filterFrom     string
	filterTo       string
	filterSearch   string
	favoritesOnly  bool
	limit          int
	topN           int
	bucketName     string
	showRising     bool
	showCategories bool
	showPairs      bool
	minEdgeWeight  int
)

func newApplication() (*app.Application, error) {
	cfg := config.Load()
	return app.New(cfg, logging.New(cfg.Logging.Level))
}

func parseFilters() (ports.QueryFilters, error) {
	filters := ports.QueryFilters{
		Source:       filterSource,
		Search:       filterSearch,
		FavoriteOnly: favoritesOnly,
		Limit:        limit,
	}
	if filterFrom != "" {
		ts, err := time.Parse("2006-01-02", filterFrom)
		if err != nil {
			return filters, fmt.Errorf("bad --from date %q: %w", filterFrom, err)
		}
		filters.From = ts
	}
	if filterTo != "" {
		ts, err := time.Parse("2006-01-02", filterTo)
		if err != nil {
			return filters, fmt.Errorf("bad --to date %q: %w", filterTo, err)
		}
		filters.To = ts.Add(24*time.Hour - time.Second)
	}
	return filters, nil
}

var rootCmd = &cobra.Command{
	Use:   "newsagent",
	Short: "Tech news ingestion and keyword analytics",
	Long: `newsagent collects tech news from RSS feeds, filters and classifies
articles, and aggregates keyword statistics over the collected set.`,
	SilenceUsage: true,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch all configured feeds once (or continuously with --watch)",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApplication()
		if err != nil {
			return err
		}
		defer application.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watchMode {
			return application.RunForever(ctx)
		}

		reports, err := application.RunOnce(ctx)
		if err != nil {
			return err
		}
		for _, report := range reports {
			fmt.Fprintf(os.Stderr, "%s: +%d ~%d skip %d nontech %d\n",
				report.Source, report.Inserted, report.Updated,
				report.Skipped, report.SkippedNonTech)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered article set to stdout as JSON or CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApplication()
		if err != nil {
			return err
		}
		defer application.Close()

		filters, err := parseFilters()
		if err != nil {
			return err
		}

		articles, err := application.Store().Query(cmd.Context(), filters)
		if err != nil {
			return err
		}

		records := export.Records(articles)
		switch exportFormat {
		case "csv":
			return export.WriteCSV(os.Stdout, records)
		case "json":
			return export.WriteJSON(os.Stdout, records)
		default:
			return fmt.Errorf("unknown format %q (json or csv)", exportFormat)
		}
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate keyword statistics over the stored article set",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApplication()
		if err != nil {
			return err
		}
		defer application.Close()

		filters, err := parseFilters()
		if err != nil {
			return err
		}

		articles, err := application.Store().Query(cmd.Context(), filters)
		if err != nil {
			return err
		}
		engine := application.Engine()

		if showRising {
			for _, lift := range engine.RisingKeywords(articles, topN) {
				score := "new"
				if !lift.Infinite {
					score = strconv.FormatFloat(lift.Score, 'f', 2, 64)
				}
				fmt.Printf("%s\t%d→%d\t%s\n", lift.Keyword, lift.Previous, lift.Recent, score)
			}
			return nil
		}

		if bucketName != "" {
			bucket := aggregate.Bucket(bucketName)
			for _, bc := range engine.TimeBuckets(articles, bucket) {
				fmt.Printf("%s\t%d\n", bc.Start.Format("2006-01-02"), bc.Count)
			}
			return nil
		}

		if showPairs {
			adj := engine.Cooccurrence(articles, minEdgeWeight)
			keys := make([]string, 0, len(adj))
			for kw := range adj {
				keys = append(keys, kw)
			}
			sort.Strings(keys)
			for _, kw := range keys {
				neighbors := make([]string, 0, len(adj[kw]))
				for n := range adj[kw] {
					neighbors = append(neighbors, n)
				}
				sort.Strings(neighbors)
				for _, n := range neighbors {
					if kw < n {
						fmt.Printf("%s\t%s\t%d\n", kw, n, adj[kw][n])
					}
				}
			}
			return nil
		}

		if showCategories {
			counts := map[string]int{}
			var order []string
			for _, art := range articles {
				cls := application.Classifier().Classify(art.Title, art.Summary, art.Keywords)
				label := cls.PrimaryMain + " / " + cls.PrimarySub
				if counts[label] == 0 {
					order = append(order, label)
				}
				counts[label]++
			}
			for _, label := range order {
				fmt.Printf("%s\t%d\n", label, counts[label])
			}
			return nil
		}

		for _, kc := range engine.KeywordCounts(articles, topN) {
			fmt.Printf("%s\t%d\n", kc.Keyword, kc.Count)
		}
		return nil
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List source names present in storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApplication()
		if err != nil {
			return err
		}
		defer application.Close()

		sources, err := application.Store().Sources(cmd.Context())
		if err != nil {
			return err
		}
		for _, source := range sources {
			fmt.Println(source)
		}
		return nil
	},
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <article-id>",
	Short: "Toggle the favorite mark on an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad article id %q: %w", args[0], err)
		}

		application, err := newApplication()
		if err != nil {
			return err
		}
		defer application.Close()

		on, err := application.Store().ToggleFavorite(cmd.Context(), id)
		if err != nil {
			return err
		}
		if on {
			fmt.Printf("article %d marked favorite\n", id)
		} else {
			fmt.Printf("article %d unmarked\n", id)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&watchMode, "watch", false, "keep running on the configured interval")

	for _, cmd := range []*cobra.Command{exportCmd, statsCmd} {
		cmd.Flags().StringVar(&filterSource, "source", "", "restrict to one source")
		cmd.Flags().StringVar(&filterFrom, "from", "", "earliest published date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&filterTo, "to", "", "latest published date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&filterSearch, "search", "", "substring match over title/summary/keywords")
		cmd.Flags().BoolVar(&favoritesOnly, "favorites", false, "favorites only")
		cmd.Flags().IntVar(&limit, "limit", 0, "cap the number of articles (0 = no cap)")
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or csv")

	statsCmd.Flags().IntVar(&topN, "top", 20, "number of entries to show")
	statsCmd.Flags().StringVar(&bucketName, "bucket", "", "count per time bucket: day, week or month")
	statsCmd.Flags().BoolVar(&showRising, "rising", false, "rising keywords (last 7d vs previous 7d)")
	statsCmd.Flags().BoolVar(&showCategories, "categories", false, "primary category distribution")
	statsCmd.Flags().BoolVar(&showPairs, "pairs", false, "keyword co-occurrence pairs")
	statsCmd.Flags().IntVar(&minEdgeWeight, "min-weight", 2, "minimum pair weight with --pairs")

	rootCmd.AddCommand(ingestCmd, exportCmd, statsCmd, sourcesCmd, favoriteCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/internal/movetable"
	"github.com/SeamusWaldron/cubestate/internal/notation"
	"github.com/SeamusWaldron/cubestate/internal/storage"
)

var (
	tablesWorkers    int
	tablesDenseLimit uint32
	tablesChunkSize  uint32
	tablesFamilies   []string
	tablesVariant    string

	buildProgress         bool
	buildRecord           bool
	buildChecksumComputed bool

	verifySamples uint32
	verifyCompare bool

	checksumMove   string
	checksumFamily string
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Build and check move transition tables",
	Long:  `Commands for building, verifying and checksumming the transition tables that map a coordinate to its successor under each face turn.`,
}

var tablesBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build all transition tables",
	Long: `Build a transition table for every (move, family) pair of the variant.

Families whose domain fits the dense limit are stored as arrays; larger ones
(edge permutation by default) are computed on demand. With --record the build
and the checksum of every dense table are stored in the database.`,
	RunE: runTablesBuild,
}

var tablesVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify transition tables against the cube model",
	Long: `Build the tables and check, for every table:
  - a move followed by its inverse returns every coordinate to itself
  - every entry matches direct computation on explicit states
  - orientation sums and permutation parity follow the cube laws

With --compare, dense table checksums are compared with the most recently
recorded build.`,
	RunE: runTablesVerify,
}

var tablesChecksumCmd = &cobra.Command{
	Use:   "checksum",
	Short: "Checksum a single table by streaming it",
	Long: `Compute the SHA3-256 checksum of one transition table by streaming its
domain in bounded chunks. Works for edge permutation without materializing it.`,
	Example: `  cubestate tables checksum --move R --family ep`,
	RunE:    runTablesChecksum,
}

func init() {
	rootCmd.AddCommand(tablesCmd)

	pf := tablesCmd.PersistentFlags()
	pf.IntVar(&tablesWorkers, "workers", 0, "Worker goroutines (default from config, else number of CPUs)")
	pf.Uint32Var(&tablesDenseLimit, "dense-limit", movetable.DefaultDenseLimit, "Largest domain stored as a dense array")
	pf.Uint32Var(&tablesChunkSize, "chunk-size", movetable.DefaultChunkSize, "Coordinates per worker job")
	pf.StringSliceVar(&tablesFamilies, "families", nil, "Families to build: co,cp,eo,ep (default: all the variant models)")
	pf.StringVar(&tablesVariant, "variant", "", "Puzzle variant: standard or corners")

	tablesCmd.AddCommand(tablesBuildCmd)
	tablesBuildCmd.Flags().BoolVar(&buildProgress, "progress", false, "Show an interactive progress view")
	tablesBuildCmd.Flags().BoolVar(&buildRecord, "record", false, "Record the build and table checksums in the database")
	tablesBuildCmd.Flags().BoolVar(&buildChecksumComputed, "checksum-computed", false, "Also checksum computed tables when recording (slow for edge permutation)")

	tablesCmd.AddCommand(tablesVerifyCmd)
	tablesVerifyCmd.Flags().Uint32Var(&verifySamples, "samples", 0, "Coordinates checked per table (0 = every coordinate of dense tables)")
	tablesVerifyCmd.Flags().BoolVar(&verifyCompare, "compare", true, "Compare checksums with the last recorded build")

	tablesCmd.AddCommand(tablesChecksumCmd)
	tablesChecksumCmd.Flags().StringVar(&checksumMove, "move", "", "Face turn, e.g. R, U', F2")
	tablesChecksumCmd.Flags().StringVar(&checksumFamily, "family", "", "Coordinate family: co, cp, eo or ep")
	_ = tablesChecksumCmd.MarkFlagRequired("move")
	_ = tablesChecksumCmd.MarkFlagRequired("family")
}

// builderOptions merges config file values with flags; flags win when set.
func builderOptions(cmd *cobra.Command) ([]movetable.Option, error) {
	flags := cmd.Flags()

	v, err := resolveVariant(tablesVariant)
	if err != nil {
		return nil, err
	}
	opts := []movetable.Option{movetable.WithVariant(v), movetable.WithLogger(logger)}

	switch {
	case flags.Changed("workers"):
		opts = append(opts, movetable.WithWorkers(tablesWorkers))
	case cfg.Workers > 0:
		opts = append(opts, movetable.WithWorkers(cfg.Workers))
	}

	switch {
	case flags.Changed("dense-limit"):
		opts = append(opts, movetable.WithDenseLimit(tablesDenseLimit))
	case cfg.DenseLimit > 0:
		opts = append(opts, movetable.WithDenseLimit(cfg.DenseLimit))
	}

	switch {
	case flags.Changed("chunk-size"):
		opts = append(opts, movetable.WithChunkSize(tablesChunkSize))
	case cfg.ChunkSize > 0:
		opts = append(opts, movetable.WithChunkSize(cfg.ChunkSize))
	}

	families, err := cfg.FamilyValues()
	if err != nil {
		return nil, err
	}
	if flags.Changed("families") {
		families = families[:0]
		for _, n := range tablesFamilies {
			f, err := cube.ParseFamily(n)
			if err != nil {
				return nil, err
			}
			families = append(families, f)
		}
	}
	if len(families) > 0 {
		opts = append(opts, movetable.WithFamilies(families...))
	}

	return opts, nil
}

func interruptible(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

func runTablesBuild(cmd *cobra.Command, args []string) error {
	opts, err := builderOptions(cmd)
	if err != nil {
		return err
	}
	b := movetable.NewBuilder(opts...)
	plans, err := b.Plan()
	if err != nil {
		return err
	}

	ctx, stop := interruptible(cmd)
	defer stop()

	var (
		db      *storage.DB
		buildID string
	)
	if buildRecord {
		db, err = openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		buildID, err = storage.NewBuildRepository(db).Create(b.Variant().String(), b.Workers(), b.DenseLimit(), version)
		if err != nil {
			return err
		}
		logger.WithField("build_id", buildID).Debug("build recorded")
	}

	start := time.Now()
	var set *movetable.Set
	if buildProgress {
		set, err = buildWithProgress(ctx, plans, opts)
	} else {
		set, err = b.Build(ctx)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	printSetSummary(out, set, elapsed)

	if buildRecord {
		if err := recordTables(ctx, db, buildID, b, set); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nRecorded build %s\n", buildID)
	}
	return nil
}

func printSetSummary(w io.Writer, set *movetable.Set, elapsed time.Duration) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Transition tables (%s)", set.Variant())))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-20s  %-9s  %-6s  %-11s  %s\n", "Family", "Strategy", "Tables", "Entries", "Memory")
	fmt.Fprintln(w, "--------------------  ---------  ------  -----------  ----------")

	for _, f := range set.Families() {
		var (
			count    int
			bytes    uint64
			strategy movetable.Strategy
		)
		for _, m := range set.Moves() {
			t, err := set.Table(m, f)
			if err != nil {
				continue
			}
			count++
			bytes += movetable.Bytes(t)
			strategy = t.Strategy()
		}
		fmt.Fprintf(w, "%-20s  %-9s  %-6d  %-11d  %s\n", f.DisplayName(), strategy, count, f.Size(), formatBytes(bytes))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Tables:  "), valueStyle.Render(fmt.Sprintf("%d", len(set.Tables()))))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Memory:  "), valueStyle.Render(formatBytes(set.Bytes())))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Duration:"), valueStyle.Render(formatDuration(elapsed)))
}

func recordTables(ctx context.Context, db *storage.DB, buildID string, b *movetable.Builder, set *movetable.Set) error {
	records := make([]storage.TableRecord, 0, len(set.Tables()))
	for _, t := range set.Tables() {
		rec := storage.TableRecord{
			Move:     t.Move().Notation(),
			Family:   t.Family().String(),
			Size:     int64(t.Size()),
			Strategy: t.Strategy().String(),
		}
		switch {
		case t.Strategy() == movetable.Dense:
			sum := movetable.Checksum(t)
			rec.Checksum = &sum
		case buildChecksumComputed:
			sum, err := b.ChecksumStream(ctx, t.Move(), t.Family())
			if err != nil {
				return err
			}
			rec.Checksum = &sum
		}
		records = append(records, rec)
	}

	if err := storage.NewTableRepository(db).CreateBatch(buildID, records); err != nil {
		return err
	}
	return storage.NewBuildRepository(db).End(buildID)
}

func runTablesVerify(cmd *cobra.Command, args []string) error {
	opts, err := builderOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := interruptible(cmd)
	defer stop()

	set, err := movetable.NewBuilder(opts...).Build(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	start := time.Now()
	if err := movetable.VerifySet(ctx, set, verifySamples); err != nil {
		fmt.Fprintln(out, errorStyle.Render("FAIL"))
		return err
	}
	fmt.Fprintf(out, "%s %d tables consistent (%s)\n", okStyle.Render("OK"), len(set.Tables()), formatDuration(time.Since(start)))

	if !verifyCompare {
		return nil
	}
	return compareChecksums(out, set)
}

var errChecksumMismatch = errors.New("checksum mismatch")

func compareChecksums(w io.Writer, set *movetable.Set) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	tables := storage.NewTableRepository(db)

	var matched, missing, mismatched int
	for _, t := range set.Tables() {
		if t.Strategy() != movetable.Dense {
			continue
		}
		rec, err := tables.GetByChecksumKey(t.Move().Notation(), t.Family().String())
		if err != nil {
			return err
		}
		if rec == nil {
			missing++
			continue
		}
		if sum := movetable.Checksum(t); sum != *rec.Checksum {
			mismatched++
			fmt.Fprintf(w, "%s %s/%s: recorded %s (build %s), got %s\n",
				errorStyle.Render("MISMATCH"), t.Move(), t.Family(), *rec.Checksum, rec.BuildID, sum)
			continue
		}
		matched++
	}

	logger.WithFields(logrus.Fields{"matched": matched, "missing": missing, "mismatched": mismatched}).Debug("checksums compared")
	if matched+mismatched == 0 {
		fmt.Fprintln(w, helpStyle.Render("No recorded checksums to compare; run 'cubestate tables build --record' first"))
		return nil
	}
	if mismatched > 0 {
		return fmt.Errorf("%w: %d of %d tables", errChecksumMismatch, mismatched, matched+mismatched)
	}
	fmt.Fprintf(w, "%s %d checksums match the recorded build\n", okStyle.Render("OK"), matched)
	return nil
}

func runTablesChecksum(cmd *cobra.Command, args []string) error {
	m, err := notation.ParseMove(checksumMove)
	if err != nil {
		return err
	}
	f, err := cube.ParseFamily(checksumFamily)
	if err != nil {
		return err
	}
	opts, err := builderOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := interruptible(cmd)
	defer stop()

	start := time.Now()
	sum, err := movetable.NewBuilder(opts...).ChecksumStream(ctx, m, f)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"move":     m.Notation(),
		"family":   f.String(),
		"entries":  f.Size(),
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}).Debug("table streamed")

	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s/%s\n", sum, m, f)
	return nil
}

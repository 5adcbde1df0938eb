package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubestate/internal/storage"
)

var buildsLimit int

var buildsCmd = &cobra.Command{
	Use:   "builds",
	Short: "List recorded table builds",
	Long:  `List table builds recorded with 'tables build --record', most recent first.`,
	RunE:  runBuilds,
}

var buildsShowCmd = &cobra.Command{
	Use:   "show <build_id>",
	Short: "Show the tables recorded for a build",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuildsShow,
}

var buildsDeleteCmd = &cobra.Command{
	Use:   "delete <build_id>",
	Short: "Delete a recorded build and its tables",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuildsDelete,
}

func init() {
	rootCmd.AddCommand(buildsCmd)
	buildsCmd.Flags().IntVarP(&buildsLimit, "limit", "n", 10, "Number of builds to show")
	buildsCmd.AddCommand(buildsShowCmd)
	buildsCmd.AddCommand(buildsDeleteCmd)
}

func runBuilds(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	builds, err := storage.NewBuildRepository(db).List(buildsLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(builds) == 0 {
		fmt.Fprintln(out, "No builds recorded.")
		return nil
	}

	tables := storage.NewTableRepository(db)

	fmt.Fprintf(out, "%-36s  %-19s  %-10s  %-8s  %-7s  %s\n", "ID", "Started", "Duration", "Variant", "Workers", "Tables")
	fmt.Fprintln(out, "------------------------------------  -------------------  ----------  --------  -------  ------")

	for _, b := range builds {
		duration := "-"
		if b.DurationMs != nil {
			duration = formatDuration(time.Duration(*b.DurationMs) * time.Millisecond)
		}
		count, err := tables.CountByBuild(b.BuildID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-36s  %-19s  %-10s  %-8s  %-7d  %d\n",
			b.BuildID, b.StartedAt.Local().Format("2006-01-02 15:04:05"), duration, b.Variant, b.Workers, count)
	}
	return nil
}

func runBuildsShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	b, err := storage.NewBuildRepository(db).Get(args[0])
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("build not found: %s", args[0])
	}
	records, err := storage.NewTableRepository(db).GetByBuild(b.BuildID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Build "+b.BuildID))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Variant:    "), b.Variant)
	fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Workers:    "), b.Workers)
	fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Dense limit:"), b.DenseLimit)
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Started:    "), b.StartedAt.Local().Format(time.DateTime))
	if b.DurationMs != nil {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Duration:   "), formatDuration(time.Duration(*b.DurationMs)*time.Millisecond))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%-4s  %-6s  %-9s  %-10s  %s\n", "Move", "Family", "Strategy", "Size", "Checksum")
	for _, r := range records {
		sum := "-"
		if r.Checksum != nil {
			sum = *r.Checksum
		}
		fmt.Fprintf(out, "%-4s  %-6s  %-9s  %-10d  %s\n", r.Move, r.Family, r.Strategy, r.Size, sum)
	}
	return nil
}

func runBuildsDelete(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := storage.NewBuildRepository(db)
	b, err := repo.Get(args[0])
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("build not found: %s", args[0])
	}
	if err := repo.Delete(b.BuildID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted build %s\n", b.BuildID)
	return nil
}

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/internal/notation"
)

var stateVariant string

var applyCmd = &cobra.Command{
	Use:   "apply <algorithm>",
	Short: "Apply an algorithm to the solved cube",
	Long: `Parse an algorithm, apply it to the solved cube and print the resulting
explicit state and its four coordinates.

Rotations (x y z), slice moves (M E S) and wide moves (r l u d f b) are
rewritten to face turns before they are applied.`,
	Example: `  cubestate apply "R U R' U' R' F R2 U' R' U' R U R' F'"
  cubestate apply --variant corners "R U2 R'"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runApply,
}

var coordsCmd = &cobra.Command{
	Use:   "coords <co> <cp> [<eo> <ep>]",
	Short: "Convert coordinates to an explicit state",
	Long: `Unrank coordinates into the explicit cubie state they stand for.
The corners-only variant takes the two corner coordinates only.`,
	Example: `  cubestate coords 0 15120 0 0
  cubestate coords --variant corners 2187 0`,
	Args: cobra.RangeArgs(2, 4),
	RunE: runCoords,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(coordsCmd)

	for _, c := range []*cobra.Command{applyCmd, coordsCmd} {
		c.Flags().StringVar(&stateVariant, "variant", "", "Puzzle variant: standard or corners (default from config, else standard)")
	}
}

func resolveVariant(flag string) (cube.Variant, error) {
	if flag != "" {
		return cube.ParseVariant(flag)
	}
	return cfg.VariantValue()
}

func runApply(cmd *cobra.Command, args []string) error {
	v, err := resolveVariant(stateVariant)
	if err != nil {
		return err
	}

	alg := strings.Join(args, " ")
	moves, err := notation.Parse(alg)
	if err != nil {
		return err
	}
	state, err := cube.New(v).ApplySequence(moves)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"moves": len(moves), "variant": v.String()}).Debug("algorithm applied")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Algorithm"))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Input:"), alg)
	fmt.Fprintf(out, "%s %s (%d)\n", labelStyle.Render("Moves:"), moveStyle.Render(notation.Format(moves)), len(moves))
	fmt.Fprintln(out)
	printState(out, state)
	return nil
}

func runCoords(cmd *cobra.Command, args []string) error {
	v, err := resolveVariant(stateVariant)
	if err != nil {
		return err
	}
	if v.HasEdges() && len(args) != 4 {
		return fmt.Errorf("%s cube needs 4 coordinates, got %d", v, len(args))
	}
	if !v.HasEdges() && len(args) != 2 {
		return fmt.Errorf("%s cube needs 2 coordinates, got %d", v, len(args))
	}

	values := make([]uint32, len(args))
	for i, a := range args {
		n, err := strconv.ParseUint(a, 10, 32)
		if err != nil {
			return fmt.Errorf("coordinate %q: %w", a, err)
		}
		values[i] = uint32(n)
	}

	c := cube.Coordinates{CornerOrientation: values[0], CornerPermutation: values[1]}
	if v.HasEdges() {
		c.EdgeOrientation = values[2]
		c.EdgePermutation = values[3]
	}
	state, err := cube.FromCoordinates(v, c)
	if err != nil {
		return err
	}

	printState(cmd.OutOrStdout(), state)
	return nil
}

func printState(w io.Writer, s cube.State) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("State (%s)", s.Variant())))
	fmt.Fprintf(w, "%s %v\n", labelStyle.Render("Corner permutation:"), s.CornerPermutation())
	fmt.Fprintf(w, "%s %v\n", labelStyle.Render("Corner orientation:"), s.CornerOrientation().Values)
	if s.Variant().HasEdges() {
		fmt.Fprintf(w, "%s %v\n", labelStyle.Render("Edge permutation:  "), s.EdgePermutation())
		fmt.Fprintf(w, "%s %v\n", labelStyle.Render("Edge orientation:  "), s.EdgeOrientation().Values)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("Coordinates"))
	coords := s.Coordinates()
	for _, f := range s.Variant().Families() {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-20s", f.DisplayName()+":")), valueStyle.Render(strconv.FormatUint(uint64(coords.Get(f)), 10)))
	}

	solved := errorStyle.Render("no")
	if s.IsSolved() {
		solved = okStyle.Render("yes")
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-20s", "Solved:")), solved)
}

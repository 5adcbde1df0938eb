package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save the file.

Keys: db_path, workers, dense_limit, chunk_size, families, variant.
Families are given comma separated, e.g. "co,cp". An empty value clears a key.`,
	Example: `  cubestate config set workers 8
  cubestate config set families co,cp,eo`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", cfgFile.Path())

	data, err := yaml.Marshal(cfgFile.Config())
	if err != nil {
		return err
	}
	if s := string(data); s != "{}\n" {
		fmt.Fprint(out, s)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], strings.TrimSpace(args[1])
	c := cfgFile.Config()

	parseUint := func() (uint32, error) {
		if value == "" {
			return 0, nil
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return uint32(n), nil
	}

	switch key {
	case "db_path":
		c.DBPath = value
	case "variant":
		c.Variant = value
	case "families":
		c.Families = nil
		for _, f := range strings.Split(value, ",") {
			if f = strings.TrimSpace(f); f != "" {
				c.Families = append(c.Families, f)
			}
		}
	case "workers":
		n, err := parseUint()
		if err != nil {
			return err
		}
		c.Workers = int(n)
	case "dense_limit":
		n, err := parseUint()
		if err != nil {
			return err
		}
		c.DenseLimit = n
	case "chunk_size":
		n, err := parseUint()
		if err != nil {
			return err
		}
		c.ChunkSize = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := cfgFile.Set(c); err != nil {
		return err
	}
	if err := cfgFile.Save(); err != nil {
		return err
	}
	cfg = c

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", cfgFile.Path())
	return nil
}

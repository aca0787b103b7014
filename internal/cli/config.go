package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/hdkit/internal/config"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify hdkit configuration settings.`,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.hdkit/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.

Example:
  hdkit config init
  hdkit config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration, including environment overrides.

Example:
  hdkit config show
  hdkit config show -o json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get a configuration value",
	Long: `Get a configuration value by its dotted YAML path.

Examples:
  hdkit config get derivation.network
  hdkit config get watch.debounce_ms`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value by its dotted YAML path. The value is parsed as
YAML, so numbers and booleans keep their types. The result is validated
before the file is written.

Examples:
  hdkit config set derivation.network dogecoin
  hdkit config set derivation.count 50
  hdkit config set derivation.coin null
  hdkit config set mnemonic.strict_lengths true`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := config.Path(cfg.Home)

	if _, err := os.Stat(configPath); err == nil && !configForce {
		return kiterr.WithSuggestion(
			kiterr.ErrGeneral,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	defaultCfg := config.Defaults()
	defaultCfg.Home = cfg.Home
	if err := config.Save(defaultCfg, configPath); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	w := cmd.OutOrStdout()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - derivation.network: Default network id (see 'hdkit networks')")
	outln(w, "  - derivation.count: Addresses per batch")
	outln(w, "  - mnemonic.word_count: Length of generated phrases")
	outln(w, "  - output.show_private: Print private keys (true/false)")
	outln(w, "  - logging.level: Log level (off/error/debug)")
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if formatter.IsJSON() {
		tree, err := configTree(cfg)
		if err != nil {
			return err
		}
		return formatter.Print(tree)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	tree, err := configTree(cfg)
	if err != nil {
		return err
	}

	value, err := lookupPath(tree, args[0])
	if err != nil {
		return err
	}

	if formatter.IsJSON() {
		return formatter.Print(map[string]any{"path": args[0], "value": value})
	}
	if value == nil {
		outln(cmd.OutOrStdout(), "null")
		return nil
	}
	if m, ok := value.(map[string]any); ok {
		data, err := yaml.Marshal(m)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	outln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, raw := args[0], args[1]

	configPath := config.Path(cfg.Home)
	current, err := config.Load(configPath)
	if err != nil {
		// If file doesn't exist, start with defaults
		current = config.Defaults()
		current.Home = cfg.Home
	}

	updated, err := setPath(current, path, raw)
	if err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	if err := config.Save(updated, configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	out(cmd.OutOrStdout(), "Set %s = %s\n", path, raw)
	return nil
}

// configTree converts c into nested maps keyed by YAML field names.
func configTree(c *config.Config) (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	tree := map[string]any{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func lookupPath(tree map[string]any, path string) (any, error) {
	var node any = tree
	for _, part := range strings.Split(path, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, unknownKey(path)
		}
		if node, ok = m[part]; !ok {
			return nil, unknownKey(path)
		}
	}
	return node, nil
}

// setPath returns a copy of c with the leaf at path replaced by raw parsed
// as YAML. Unknown paths and type mismatches are rejected.
func setPath(c *config.Config, path, raw string) (*config.Config, error) {
	tree, err := configTree(c)
	if err != nil {
		return nil, err
	}
	if _, err := lookupPath(tree, path); err != nil {
		return nil, err
	}

	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{"value": raw})
	}

	parts := strings.Split(path, ".")
	parent := tree
	for _, part := range parts[:len(parts)-1] {
		parent = parent[part].(map[string]any) //nolint:forcetypeassert // lookupPath verified the shape
	}
	if _, isSection := parent[parts[len(parts)-1]].(map[string]any); isSection {
		return nil, kiterr.WithSuggestion(unknownKey(path), "set individual keys, not whole sections")
	}
	parent[parts[len(parts)-1]] = value

	data, err := yaml.Marshal(tree)
	if err != nil {
		return nil, err
	}

	next := config.Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(next); err != nil {
		return nil, kiterr.WithDetails(kiterr.ErrConfigInvalid, map[string]string{"path": path, "value": raw})
	}
	return next, nil
}

func unknownKey(path string) error {
	return kiterr.WithDetails(kiterr.ErrNotFound, map[string]string{"config_path": path})
}

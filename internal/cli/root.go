package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/gamelore/internal/logging"
	"github.com/ppiankov/gamelore/internal/model"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool

	cfg    *model.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gamelore",
	Short: "gamelore - answers questions about video games",
	Long: `gamelore answers natural-language questions about a catalog of video games
(release dates, ratings, stories, franchises) and remembers facts you tell it
about yourself.

Sentences are parsed by a CoreNLP-compatible annotation server; the parse trees
are interpreted with fixed rules. Facts are kept in a local SQLite database.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gamelore %s\n", Version)
	},
}

// persistentPreRunE loads the config and logger before every command. It is
// attached in init to avoid an initialization cycle through loadConfig.
func persistentPreRunE(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.Log.Level, cfg.Log.Format, verbose)
	if err != nil {
		return err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}

func init() {
	rootCmd.PersistentPreRunE = persistentPreRunE
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.gamelore/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.String("store", "", "SQLite database path")
	flags.String("annotator", "", "annotation server URL")
	flags.Bool("no-cache", false, "disable the annotation cache")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("store.path", flags.Lookup("store"))
	_ = viper.BindPFlag("annotator.url", flags.Lookup("annotator"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".gamelore"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match GAMELORE_* (nested keys use
	// underscores: GAMELORE_ANNOTATOR_URL)
	viper.SetEnvPrefix("GAMELORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range configKeys(model.DefaultConfig()) {
		_ = viper.BindEnv(key)
	}

	_ = viper.ReadInConfig()
}

// loadConfig layers the config file, environment and flags over the defaults
func loadConfig() (*model.Config, error) {
	c := model.DefaultConfig()
	if err := viper.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// empty flag values must not clobber configured ones
	if c.Store.Path == "" {
		c.Store.Path = model.DefaultConfig().Store.Path
	}
	if c.Annotator.URL == "" {
		c.Annotator.URL = model.DefaultConfig().Annotator.URL
	}
	if noCache, _ := rootCmd.PersistentFlags().GetBool("no-cache"); noCache {
		c.Cache.Enabled = false
	}
	return c, nil
}

// configKeys lists the dotted keys of every config setting
func configKeys(c *model.Config) []string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil
	}

	var keys []string
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if sub, ok := v.(map[string]any); ok {
				walk(key, sub)
				continue
			}
			keys = append(keys, key)
		}
	}
	walk("", tree)
	return keys
}

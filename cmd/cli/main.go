package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/logger"
)

const app = "resume-analyzer"

// errRejected signals a document that failed the validity gate.
var errRejected = errors.New("document rejected")

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "resume-analyzer scores resume documents against a skills taxonomy",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("policy", "p", "", "scoring policy: enhanced or simple (default from SCORING_POLICY)")
	rootCmd.PersistentFlags().StringP("taxonomy", "t", "", "taxonomy file replacing the policy's built-in catalog")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().Bool("log-json", false, "json format for logging")

	viper.BindPFlag("SCORING_POLICY", rootCmd.PersistentFlags().Lookup("policy"))
	viper.BindPFlag("TAXONOMY_FILE", rootCmd.PersistentFlags().Lookup("taxonomy"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("log-json", rootCmd.PersistentFlags().Lookup("log-json"))
	viper.AutomaticEnv()
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("log-json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// newEngine builds the engine from flags, falling back to the environment.
func newEngine() (*analyzer.Engine, error) {
	scoring := config.ScoringConfig{
		Policy:       viper.GetString("SCORING_POLICY"),
		TaxonomyFile: viper.GetString("TAXONOMY_FILE"),
		MinWords:     viper.GetInt("SCORING_MIN_WORDS"),
		MinSections:  viper.GetInt("SCORING_MIN_SECTIONS"),
		MaxScore:     viper.GetInt("SCORING_MAX_SCORE"),
	}

	policy, err := scoring.ScoringPolicy()
	if err != nil {
		return nil, err
	}
	return analyzer.New(policy)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "augusta",
	Short: "AI-powered chatbot for football questions",
	Long: `Augusta is an AI-powered chatbot that answers natural language
questions about football: standings, results, fixtures, match events
and player statistics. Questions outside football are politely
refused before any model or data call is made.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.augusta.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug output (shows progress + internal diagnostics)")
	rootCmd.PersistentFlags().String("provider", "", "AI provider: openai, deepseek, gemini-api")

	// TODO: add error return here
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("ai.default_provider", rootCmd.PersistentFlags().Lookup("provider"))

	viper.SetDefault("ai.default_provider", "openai")
	viper.SetDefault("football.api_url", "https://v3.football.api-sports.io")
	viper.SetDefault("fetch.soft_timeout_seconds", 3)
	viper.SetDefault("fetch.hard_timeout_seconds", 5)
	viper.SetDefault("guard.thresholds.injection", 0.70)
	viper.SetDefault("guard.thresholds.football", 0.62)
	viper.SetDefault("guard.thresholds.coming_soon", 0.68)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".augusta")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("debug") {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

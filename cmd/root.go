// Package cmd is for command line interactions with the hcr-prober
// application.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use: "hcr-prober",
	Short: `Design HCR v3.0 probe pairs against target transcripts.
Candidates are generated, filtered thermodynamically, screened for
specificity with BLAST and spaced evenly across the target`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main() and only needs to
// happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
}

// initConfig reads in the optional hcr-prober.yaml config file.
// Command-line flags take precedence over its values.
func initConfig() {
	viper.SetConfigName("hcr-prober")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err == nil {
		logrus.Infof("loading config from %s", viper.ConfigFileUsed())
	}
}

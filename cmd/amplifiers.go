package cmd

import (
	"os"
	"sort"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/invertome/hcr-prober/config"
)

// amplifiersCmd lists the amplifier plugins visible to the other
// commands, for checking what a given --amplifier-dir provides.
var amplifiersCmd = &cobra.Command{
	Use:    "amplifiers",
	Short:  "List the available HCR amplifier plugins",
	PreRun: bindFlags,
	Run:    runAmplifiers,
}

func init() {
	rootCmd.AddCommand(amplifiersCmd)

	amplifiersCmd.Flags().String("amplifier-dir", "amplifiers", "directory of amplifier plugin JSON files")
}

func runAmplifiers(cmd *cobra.Command, args []string) {
	amplifiers, err := config.LoadAmplifiers(viper.GetString("amplifier-dir"))
	if err != nil {
		logrus.Fatal(err)
	}

	names := make([]string, 0, len(amplifiers))
	for name := range amplifiers {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
	defer w.Flush()

	w.Write([]byte("amplifier\tupstream initiator\tdownstream initiator\n"))
	for _, name := range names {
		a := amplifiers[name]
		w.Write([]byte(name + "\t" + a.Up + "\t" + a.Dn + "\n"))
	}
}

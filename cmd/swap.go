package cmd

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/invertome/hcr-prober/config"
	"github.com/invertome/hcr-prober/internal/sequence"
	"github.com/invertome/hcr-prober/internal/swap"
)

// swapCmd rewrites existing order sheets to a different amplifier
// without redesigning the probes.
var swapCmd = &cobra.Command{
	Use:    "swap",
	Short:  "Swap the amplifier on existing probe order sheets",
	PreRun: bindFlags,
	Run:    runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringP("input-probes", "i", "", "an _order.xlsx file or a directory of them")
	swapCmd.Flags().StringP("output-dir", "o", "swapped_probes", "output directory for swapped sheets")
	swapCmd.Flags().String("new-amplifier", "", "amplifier ID to swap to")
	swapCmd.Flags().String("amplifier-dir", "amplifiers", "directory of amplifier plugin JSON files")
	swapCmd.Flags().Int64("seed", 0, "seed for IUPAC spacer resolution (0 = fresh randomness)")

	swapCmd.MarkFlagRequired("input-probes")
	swapCmd.MarkFlagRequired("new-amplifier")
}

func runSwap(cmd *cobra.Command, args []string) {
	inPath := viper.GetString("input-probes")
	outDir := viper.GetString("output-dir")
	newAmp := viper.GetString("new-amplifier")

	amplifiers, err := config.LoadAmplifiers(viper.GetString("amplifier-dir"))
	if err != nil {
		logrus.Fatal(err)
	}

	seed := viper.GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	resolve := func(spacer string) string {
		return sequence.ResolveSpacer(spacer, rng)
	}

	swapper, err := swap.New(amplifiers, newAmp, resolve)
	if err != nil {
		logrus.Fatal(err)
	}
	if err := swapper.Run(inPath, outDir); err != nil {
		logrus.Fatal(err)
	}
}

package cmd

import (
	"github.com/nathanhack/qhamming/cmd/internal/create/hamming"

	"github.com/spf13/cobra"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:     "create",
	Aliases: []string{"c"},
	Short:   "used to create a new ECC",
	Long:    `create provides the ability to make a new ECC from the list of built-in ECCs and save them so they can be used later by the codec and tools.`,
}

// createHammingCmd represents the Hamming command
var createHammingCmd = &cobra.Command{
	Use:     "hamming OUTPUT_HAMMING_JSON",
	Aliases: []string{"h", "ham"},
	Short:   "Creates a new Hamming code based ECC",
	Long:    `Creates a new Hamming code based ECC over Z/qZ for a prime q.`,
	Args:    cobra.ExactArgs(1),
	RunE:    hamming.HammingRun,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.AddCommand(createHammingCmd)
	createHammingCmd.Flags().UintVarP(&hamming.AlphabetSize, "alphabet", "q", 2, "the prime alphabet size q")
	createHammingCmd.Flags().UintVarP(&hamming.ParitySymbols, "parity", "p", 3, "the parity >=2, sets codeword size (cs) == (q^parity-1)/(q-1) and message size == cs-parity")
	createHammingCmd.Flags().UintVarP(&hamming.Threads, "threads", "t", 0, "the number of threads to use; note 0 means use the number of cpus")
}

package cmd

import (
	"github.com/nathanhack/qhamming/cmd/internal/codec"

	"github.com/spf13/cobra"
)

// codecCmd represents the codec command
var codecCmd = &cobra.Command{
	Use:     "codec",
	Aliases: []string{"cd"},
	Short:   "Encode, correct and decode symbols",
	Long:    `Encode, correct and decode comma separated symbols with a saved ECC.`,
}

var codecEncodeCmd = &cobra.Command{
	Use:     "encode ECC_JSON_FILE MESSAGE",
	Aliases: []string{"e"},
	Short:   "Encodes a message into a codeword",
	Args:    cobra.ExactArgs(2),
	RunE:    codec.EncodeRun,
}

var codecCorrectCmd = &cobra.Command{
	Use:     "correct ECC_JSON_FILE RECEIVED",
	Aliases: []string{"c"},
	Short:   "Corrects up to one symbol error in a received codeword",
	Args:    cobra.ExactArgs(2),
	RunE:    codec.CorrectRun,
}

var codecDecodeCmd = &cobra.Command{
	Use:     "decode ECC_JSON_FILE CODEWORD",
	Aliases: []string{"d"},
	Short:   "Decodes a codeword into a message",
	Args:    cobra.ExactArgs(2),
	RunE:    codec.DecodeRun,
}

func init() {
	rootCmd.AddCommand(codecCmd)
	codecCmd.AddCommand(codecEncodeCmd)
	codecCmd.AddCommand(codecCorrectCmd)
	codecCmd.AddCommand(codecDecodeCmd)
	codecDecodeCmd.Flags().BoolVarP(&codec.Diagnostics, "diagnostics", "d", false, "print the receiver matrix before decoding")
}

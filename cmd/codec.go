package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/spf13/cobra"
)

// CodecCmd groups the storage-free codec commands.
var CodecCmd = &cobra.Command{
	Use:   "codec",
	Short: "Encode, decode and digest records without a store",
	Long: `Runs the configured codec directly. Input comes from the argument or
stdin, so packages can be inspected or produced by hand.

Examples:
  coffer codec encode '{"a":1}'
  coffer codec decode giloKUE4hA==
  echo '{"a":1}' | coffer codec digest`,
}

func init() {
	CodecCmd.AddCommand(codecEncodeCmd)
	CodecCmd.AddCommand(codecDecodeCmd)
	CodecCmd.AddCommand(codecDigestCmd)
}

func codecInput(args []string) ([]byte, error) {
	if len(args) > 0 {
		return []byte(args[0]), nil
	}
	return utils.ReadStdin()
}

var codecEncodeCmd = &cobra.Command{
	Use:   "encode [json]",
	Short: "Print the envelope for a JSON record",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := codecInput(args)
		if err != nil {
			return reported(Logger.ErrorfAndReturn("failed to read input: %w", err))
		}

		result, err := workflows.Encode(context.Background(), workflows.CodecOptions{Session: sessionOptions(), Input: input})
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}

		out, err := json.Marshal(result.Envelope)
		if err != nil {
			return reported(Logger.ErrorfAndReturn("failed to marshal envelope: %w", err))
		}
		fmt.Println(string(out))
		return nil
	},
}

var codecDecodeCmd = &cobra.Command{
	Use:   "decode [envelope]",
	Short: "Print the record inside an envelope",
	Long: `Decodes an envelope object, or just its data string, and prints the
record as canonical JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := codecInput(args)
		if err != nil {
			return reported(Logger.ErrorfAndReturn("failed to read input: %w", err))
		}

		result, err := workflows.Decode(context.Background(), workflows.CodecOptions{Session: sessionOptions(), Input: input})
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}
		fmt.Println(string(result.Canonical))
		return nil
	},
}

var codecDigestCmd = &cobra.Command{
	Use:   "digest [json]",
	Short: "Print the integrity digest of a JSON record",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := codecInput(args)
		if err != nil {
			return reported(Logger.ErrorfAndReturn("failed to read input: %w", err))
		}

		result, err := workflows.Digest(context.Background(), workflows.CodecOptions{Session: sessionOptions(), Input: input})
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}
		Logger.Debugf("%s digest of %s", result.Digest, result.Canonical)
		fmt.Println(result.Hash)
		return nil
	},
}

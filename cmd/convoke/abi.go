// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"convoke/internal/abi"
	"convoke/pkg/contract"
)

var (
	// abiEncodeArgs holds --arg name=value pairs for abi encode.
	abiEncodeArgs []string

	// abiCmd groups the codec-only commands. They operate on an interface
	// document alone and never touch contract units or storage.
	abiCmd = &cobra.Command{
		Use:   "abi",
		Short: "Encode and decode contract calls",
	}

	abiSelectorsCmd = &cobra.Command{
		Use:   "selectors <interface.json>",
		Short: "Print the endpoint selector table of an interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, _, err := codecFromFile(args[0])
			if err != nil {
				return err
			}
			for _, endpoint := range codec.Endpoints() {
				sel, err := codec.Selector(endpoint)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n",
					sel.String(), SelectorStyle.Render(endpoint))
			}
			return nil
		},
	}

	abiEncodeCmd = &cobra.Command{
		Use:   "encode <interface.json> <endpoint>",
		Short: "Encode an endpoint call to its wire form",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			codec, iface, err := codecFromFile(cmdArgs[0])
			if err != nil {
				return err
			}
			endpoint := cmdArgs[1]
			args, err := parseArgPairs(abiEncodeArgs)
			if err != nil {
				return err
			}
			// Bind first so mistyped arguments fail before encoding.
			if def, ok := iface.Endpoint(endpoint); ok {
				if _, err := def.BindArgs(args); err != nil {
					return err
				}
			}
			encoded, err := codec.EncodeCall(endpoint, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}

	abiDecodeCmd = &cobra.Command{
		Use:   "decode <interface.json> <text>",
		Short: "Decode a wire-form call back into endpoint and arguments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			codec, _, err := codecFromFile(cmdArgs[0])
			if err != nil {
				return err
			}
			endpoint, args, err := codec.DecodeCall(cmdArgs[1])
			if err != nil {
				return err
			}
			argsJSON, err := json.Marshal(args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				SelectorStyle.Render(endpoint), string(argsJSON))
			return nil
		},
	}
)

func init() {
	abiEncodeCmd.Flags().StringArrayVar(&abiEncodeArgs, "arg", nil,
		"argument as name=value (repeatable; value parsed as JSON when possible)")

	abiCmd.AddCommand(abiSelectorsCmd)
	abiCmd.AddCommand(abiEncodeCmd)
	abiCmd.AddCommand(abiDecodeCmd)
}

// codecFromFile loads an interface document and builds its codec.
func codecFromFile(path string) (*abi.Codec, *contract.ContractInterface, error) {
	iface, err := contract.LoadInterface(path)
	if err != nil {
		return nil, nil, err
	}
	codec, err := abi.NewCodec(iface)
	if err != nil {
		return nil, nil, err
	}
	return codec, iface, nil
}

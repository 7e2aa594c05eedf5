// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"convoke/internal/engine"
	"convoke/pkg/contract"
)

var (
	execUnit     string
	execEndpoint string
	execStorage  string
	execArgs     string

	// internalExecCmd is the container worker entry point. The dispatcher
	// runs it inside the sandbox with the unit directory and the convoke
	// binary mounted read-only; its stdout carries exactly one execution
	// report as JSON.
	//
	// Business and execution failures are data inside that report, so they
	// exit 0. A non-zero exit means the worker itself could not produce a
	// report (bad flags, unserializable result) and the dispatcher turns it
	// into a sandbox failure.
	internalExecCmd = &cobra.Command{
		Use:   "exec",
		Short: "Run one endpoint invocation and report it on stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var storageBefore []contract.Variable
			if execStorage != "" {
				if err := json.Unmarshal([]byte(execStorage), &storageBefore); err != nil {
					return fmt.Errorf("parse --storage: %w", err)
				}
			}
			var callArgs []contract.Variable
			if execArgs != "" {
				if err := json.Unmarshal([]byte(execArgs), &callArgs); err != nil {
					return fmt.Errorf("parse --args: %w", err)
				}
			}

			info := engine.Execute(cmd.Context(), engine.ShellLoader{}, execUnit,
				storageBefore, execEndpoint, callArgs)

			data, err := json.Marshal(info)
			if err != nil {
				return fmt.Errorf("serialize execution report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
)

func init() {
	internalExecCmd.Flags().StringVar(&execUnit, "unit", "", "path of the contract unit")
	internalExecCmd.Flags().StringVar(&execEndpoint, "endpoint", "", "endpoint to invoke")
	internalExecCmd.Flags().StringVar(&execStorage, "storage", "", "storage to restore, as a JSON array of variables")
	internalExecCmd.Flags().StringVar(&execArgs, "args", "", "call arguments, as a JSON array of variables")
	_ = internalExecCmd.MarkFlagRequired("unit")
	_ = internalExecCmd.MarkFlagRequired("endpoint")

	internalCmd.AddCommand(internalExecCmd)
}

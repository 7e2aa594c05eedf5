// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"convoke/internal/abi"
	"convoke/internal/config"
	"convoke/internal/container"
	"convoke/internal/registry"
	"convoke/internal/sandbox"
	"convoke/internal/storage"
	"convoke/pkg/contract"
)

var (
	invokeArgPairs []string
	invokeOutput   string
	invokeIndent   int

	invokeCmd = &cobra.Command{
		Use:   "invoke <contract> <endpoint>",
		Short: "Invoke a contract endpoint against its persisted storage",
		Long: `Invoke resolves a contract from the contracts directory, restores its
storage from the last committed execution (or the interface's initial
values on first run), dispatches the endpoint through the configured
sandbox, prints the execution report as JSON, and commits the new
storage when the execution succeeded.

A failed endpoint (business failure) still produces a report; only the
execution-level status decides the commit and the exit code.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runInvoke(cmd, cmdArgs[0], cmdArgs[1])
		},
	}
)

func init() {
	invokeCmd.Flags().StringArrayVar(&invokeArgPairs, "arg", nil,
		"argument as name=value (repeatable; value parsed as JSON when possible)")
	invokeCmd.Flags().StringVar(&invokeOutput, "output", "",
		"also write the execution report to this file")
	invokeCmd.Flags().IntVar(&invokeIndent, "indent", 2,
		"indentation of the printed JSON report (0 for compact)")
}

func runInvoke(cmd *cobra.Command, contractName, endpoint string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	cDir, err := contractsDir(cfg)
	if err != nil {
		return err
	}
	sDir, err := storageDir(cfg)
	if err != nil {
		return err
	}

	reg, err := registry.Open(cDir)
	if err != nil {
		return err
	}
	resolved, err := reg.Resolve(contractName)
	if err != nil {
		return err
	}

	iface, err := contract.LoadInterface(resolved.InterfacePath)
	if err != nil {
		return err
	}
	codec, err := abi.NewCodec(iface)
	if err != nil {
		return err
	}
	// Reject unknown endpoints before any storage or process interaction.
	if _, err := codec.Selector(endpoint); err != nil {
		return err
	}
	def, _ := iface.Endpoint(endpoint)

	namedArgs, err := parseArgPairs(invokeArgPairs)
	if err != nil {
		return err
	}
	callArgs, err := def.BindArgs(namedArgs)
	if err != nil {
		return err
	}

	store := storage.NewStore(sDir)
	storageBefore, err := store.Load(contractName)
	if err != nil {
		return err
	}
	if storageBefore == nil {
		storageBefore = iface.StorageVars
	}

	dispatcher, err := buildDispatcher(cfg)
	if err != nil {
		return err
	}

	info, err := dispatcher.Dispatch(ctx, resolved.UnitPath, storageBefore, endpoint, callArgs)
	if err != nil {
		return err
	}

	if err := printReport(cmd, info); err != nil {
		return err
	}
	if invokeOutput != "" {
		if err := info.WriteFile(invokeOutput); err != nil {
			return err
		}
	}

	if !info.Success.IsSuccess() {
		// Execution-level failure: nothing committed, signal the caller.
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("execution failed: ")+info.Success.Err)
		return &ExitError{Code: 1}
	}
	if err := store.Commit(contractName, info); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), SuccessStyle.Render("storage committed: ")+store.Path(contractName))
	if info.Call != nil && !info.Call.Success.IsSuccess() {
		fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render("endpoint failed: ")+info.Call.Success.Err)
	}
	return nil
}

// buildDispatcher assembles the sandbox dispatcher from configuration. The
// container engine is only probed when isolated mode actually needs it.
func buildDispatcher(cfg *config.Config) (*sandbox.Dispatcher, error) {
	mode, err := sandbox.ParseMode(string(cfg.Sandbox.Mode))
	if err != nil {
		return nil, err
	}

	opts := sandbox.Options{
		Mode:    mode,
		Image:   cfg.Sandbox.Image,
		Timeout: time.Duration(cfg.Sandbox.TimeoutSeconds) * time.Second,
	}
	if mode == sandbox.ModeIsolated {
		opts.Engine, err = buildEngine(cfg.Sandbox.Engine)
		if err != nil {
			return nil, err
		}
	}
	return sandbox.NewDispatcher(opts)
}

func buildEngine(engine config.ContainerEngine) (container.Engine, error) {
	if engine == config.ContainerEngineAuto {
		return container.AutoDetectEngine()
	}
	return container.NewEngine(container.EngineType(engine))
}

func printReport(cmd *cobra.Command, info *contract.ExecutionInfo) error {
	var (
		data []byte
		err  error
	)
	if invokeIndent > 0 {
		data, err = json.MarshalIndent(info, "", fmt.Sprintf("%*s", invokeIndent, ""))
	} else {
		data, err = json.Marshal(info)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

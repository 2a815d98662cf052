/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"github.com/suparena/kvbridge"
	"github.com/suparena/kvbridge/config"
	"github.com/suparena/kvbridge/kvstore"
	"github.com/suparena/kvbridge/schema"
)

// storeOpener replaces the configured backend, for tests.
type storeOpener func(ctx context.Context, cfg *config.Config) (kvstore.Store, error)

type app struct {
	open storeOpener
}

func newRootCmd(open storeOpener) *cobra.Command {
	ap := &app{open: open}
	rootCmd := &cobra.Command{
		Use:           "kvbridge",
		Short:         "Read and write kvbridge records in a key-value store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
	}
	rootCmd.PersistentFlags().String("env-file", "", "load settings from this .env file instead of ./.env")
	rootCmd.PersistentFlags().String("schema", "", "OpenAPI document defining the models")
	rootCmd.PersistentFlags().Int("log-verbosity", 0, "log verbosity. Higher value means more log")
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCreateCmd(ap))
	rootCmd.AddCommand(newFindCmd(ap))
	rootCmd.AddCommand(newUpdateCmd(ap))
	rootCmd.AddCommand(newAllCmd(ap))
	rootCmd.AddCommand(newCountCmd(ap))
	rootCmd.AddCommand(newDestroyCmd(ap))
	rootCmd.AddCommand(newDestroyAllCmd(ap))
	rootCmd.AddCommand(newIndexCmd(ap))
	return rootCmd
}

// setupLogger logs to stderr so stdout only carries JSON.
func setupLogger(cmd *cobra.Command) (logr.Logger, error) {
	verbosity, err := cmd.Flags().GetInt("log-verbosity")
	if err != nil {
		return logr.Discard(), err
	}
	stdr.SetVerbosity(verbosity)
	return stdr.New(log.New(cmd.ErrOrStderr(), "", log.LstdFlags)), nil
}

// adapter connects to the configured store and defines the schema's models. The
// caller disconnects it.
func (ap *app) adapter(cmd *cobra.Command) (*kvbridge.Adapter, error) {
	logger, err := setupLogger(cmd)
	if err != nil {
		return nil, err
	}
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, err
	}
	var cfg *config.Config
	if envFile != "" {
		cfg, err = config.Load(envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	var a *kvbridge.Adapter
	if ap.open != nil {
		store, err := ap.open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a = kvbridge.New(store, kvbridge.WithLogger(logger))
	} else {
		a, err = kvbridge.Connect(ctx, cfg, kvbridge.WithLogger(logger))
		if err != nil {
			return nil, err
		}
	}

	schemaPath, err := cmd.Flags().GetString("schema")
	if err != nil || schemaPath == "" {
		return a, err
	}
	defs, err := schema.Load(schemaPath)
	if err != nil {
		a.Disconnect()
		return nil, err
	}
	for _, d := range defs {
		if err := d.Apply(a); err != nil {
			a.Disconnect()
			return nil, err
		}
	}
	logger.V(1).Info("schema loaded", "path", schemaPath, "models", len(defs))
	return a, nil
}

// withAdapter runs fn with a connected adapter and disconnects afterwards.
func (ap *app) withAdapter(fn func(cmd *cobra.Command, a *kvbridge.Adapter, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := ap.adapter(cmd)
		if err != nil {
			return err
		}
		defer a.Disconnect()
		return fn(cmd, a, args)
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := kvbridge.GetVersionInfo()
			cmd.Printf("kvbridge version %s\n", info.Version)
			cmd.Printf("Git commit: %s\n", info.GitCommit)
			cmd.Printf("Build date: %s\n", info.BuildDate)
			cmd.Printf("Go version: %s\n", info.GoVersion)
			return nil
		},
	}
}

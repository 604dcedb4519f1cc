// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the custfinder
// project. Commands are organized using the cobra library.
// The root command finds the customers within a distance of a point,
// as configured by a config file, and prints them. The "serve"
// sub-command exposes the same functionality as a REST API.
//
//	./custfinder [/path/of/config.json] [-o text|json|yaml|xlsx]
//	./custfinder [-c /path/of/config.yaml]
//	./custfinder serve [/path/of/config.yaml]
//
// If no config path is given, the CONFIG_FILE environment variable or
// the configs/config.json default path is used.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"github.com/momeni/custfinder/pkg/adapter/config"
	"github.com/momeni/custfinder/pkg/adapter/datasrc/txtfile"
	"github.com/momeni/custfinder/pkg/adapter/logging"
	"github.com/momeni/custfinder/pkg/adapter/report"
	"github.com/momeni/custfinder/pkg/core/cerr"
	"github.com/momeni/custfinder/pkg/core/log"
	"github.com/momeni/custfinder/pkg/core/usecase/finderuc"
	"github.com/spf13/cobra"
)

// ConfigFileEnv is the environment variable which provides the config
// file path when it is not passed as an argument or flag.
const ConfigFileEnv = "CONFIG_FILE"

// DefaultConfigPath is used when no config path is provided.
const DefaultConfigPath = "configs/config.json"

// errReported indicates that an error was already reported to users,
// so it only needs to be reflected in the exit code.
var errReported = errors.New("error is reported")

type options struct {
	cfgPath   string
	output    string
	lookupEnv config.LookupEnv
	progress  io.Writer // nil disables the progress bar
}

func newRootCmd(lookupEnv config.LookupEnv, progress io.Writer) *cobra.Command {
	o := &options{lookupEnv: lookupEnv, progress: progress}
	rootCmd := &cobra.Command{
		Use:   "custfinder [config-file]",
		Short: "Finds customers within a distance of a reference point",
		Long: `Finds customers within a distance of a reference point.
It reads the customer records from a text file, one JSON object per
line, and prints the user ID and name of those customers whose great
circle distance from the configured main coordinates is not more than
the distance threshold (in km), sorted by their user IDs.
The distance threshold may be configured in the config file or the
DIST_THRESHOLD environment variable and defaults to 100 km.
Logs are written as JSON records to the custfinder.log file, unless
changed by the LOG_FILE, LOG_LEVEL, and APP_NAME environment variables.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          o.find,
	}
	rootCmd.PersistentFlags().StringVarP(
		&o.cfgPath, "config", "c", "", "config file path",
	)
	rootCmd.Flags().StringVarP(
		&o.output, "output", "o", string(report.Text),
		"output format (text, json, yaml, or xlsx)",
	)
	rootCmd.AddCommand(newServeCmd(o))
	return rootCmd
}

// Execute runs the root command which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code is
// zero for success and one for failure. The running command is
// canceled by the SIGINT and SIGTERM signals.
func Execute() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	var progress io.Writer
	if isatty.IsTerminal(os.Stderr.Fd()) {
		progress = os.Stderr
	}
	err := newRootCmd(os.LookupEnv, progress).ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// configPath returns the config file path which is set respectively by
// either the CLI args, the --config flag, the CONFIG_FILE environment
// variable, or its default value.
func (o *options) configPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if o.cfgPath != "" {
		return o.cfgPath
	}
	if p, found := o.lookupEnv(ConfigFileEnv); found && p != "" {
		return p
	}
	return DefaultConfigPath
}

// newLogger creates a logger based on the `l` settings which may be
// overridden by the environment variables. If the logger cannot be
// created, a logger which writes warnings into `stderr` is returned,
// so logging problems do not prevent the command from running.
// The returned function must be called to release the logger.
func (o *options) newLogger(
	l config.Logging, stderr io.Writer,
) (*slog.Logger, func()) {
	s := l.Settings(o.lookupEnv)
	logger, closer, err := logging.New(s)
	if err != nil {
		logger = logging.NewWithWriter(stderr, slog.LevelWarn, s.AppName)
		logger.Warn("falling back to stderr logs", log.Err("err", err))
		return logger, func() {}
	}
	return logger, func() { _ = closer.Close() }
}

// loadConfig loads the config file and returns the context which holds
// the configured logger. The returned function releases that logger and
// must be called even if an error is returned.
func (o *options) loadConfig(
	cmd *cobra.Command, path string,
) (context.Context, *config.Config, func(), error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger, release := o.newLogger(config.Logging{}, cmd.ErrOrStderr())
	lctx := log.WithLogger(ctx, logger)
	c, err := config.Load(lctx, path)
	if err != nil || c.Logging == (config.Logging{}) {
		return lctx, c, release, err
	}
	release()
	logger, release = o.newLogger(c.Logging, cmd.ErrOrStderr())
	return log.WithLogger(ctx, logger), c, release, nil
}

func (o *options) find(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(o.output)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	say := func(msg string) {
		if format == report.Text {
			fmt.Fprintln(out, msg)
		}
	}
	path := o.configPath(args)
	say("Loading configuration from the file: " + path)
	ctx, c, release, err := o.loadConfig(cmd, path)
	defer release()
	if err != nil {
		return o.fail(ctx, out, "loading the configuration", err)
	}
	s, err := c.ValidateAndNormalize(ctx, o.lookupEnv)
	if err != nil {
		return o.fail(ctx, out, "loading the configuration", err)
	}
	say("Loaded the configuration successfully.")
	log.Info(ctx, "Loaded the configuration successfully.")

	var srcOpts []txtfile.Option
	if o.progress != nil {
		srcOpts = append(srcOpts, txtfile.WithProgress(o.progress))
	}
	uc, err := finderuc.New(
		txtfile.New(srcOpts...),
		finderuc.WithSkipHandler(echoSkipped(cmd.ErrOrStderr())),
	)
	if err != nil {
		return fmt.Errorf("creating finder use case: %w", err)
	}
	customers, err := uc.Find(ctx, s)
	if err != nil {
		return o.fail(ctx, out, "finding customers", err)
	}
	log.Info(ctx, "Successfully found the list of customers")
	say("Successfully found the list of customers")
	return report.Write(out, format, report.NewResult(s, customers))
}

// fail logs and prints the `err` error as a JSON object and returns
// the errReported error.
func (o *options) fail(
	ctx context.Context, out io.Writer, action string, err error,
) error {
	var ce *cerr.Error
	if !errors.As(err, &ce) {
		ce = cerr.Unexpected(err)
	}
	log.Error(ctx, "An error occurred in "+action, log.Err("err", ce))
	if b, merr := json.Marshal(ce); merr == nil {
		fmt.Fprintln(out, string(b))
	} else {
		fmt.Fprintln(out, ce.Error())
	}
	return errReported
}

// echoSkipped returns a finderuc.SkipFunc which logs the skipped
// records and writes their errors as JSON objects into `w`.
func echoSkipped(w io.Writer) finderuc.SkipFunc {
	return func(ctx context.Context, line int, err *cerr.Error) {
		log.Warn(
			ctx, "skipping customer record",
			slog.Int("line", line), log.Err("err", err),
		)
		if b, merr := json.Marshal(err); merr == nil {
			fmt.Fprintln(w, string(b))
		}
	}
}

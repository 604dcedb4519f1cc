// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/momeni/custfinder/pkg/adapter/restful/gin/routes"
	"github.com/momeni/custfinder/pkg/core/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [config-file]",
		Short: "Serves the customers finding REST API",
		Long: `Serves the customers finding REST API.
The GET /api/custfinder/v1/customers endpoint finds customers like
the root command. Its optional lat and lon (passed together) and
distance query parameters override the configured main coordinates
and distance threshold. The config file is validated per request,
so errors are reported as the API responses.`,
		Args: cobra.MaximumNArgs(1),
		RunE: o.serve,
	}
}

func (o *options) serve(cmd *cobra.Command, args []string) error {
	path := o.configPath(args)
	ctx, c, release, err := o.loadConfig(cmd, path)
	defer release()
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", path, err)
	}
	logger := log.FromContext(ctx)
	e := c.Server.NewEngine(logger)
	if err = routes.Register(e, c, o.lookupEnv); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	srv := c.Server.NewHTTPServer(e)
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting web server", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err = <-errCh:
		return fmt.Errorf("running web server: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down web server")
	sctx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx), shutdownTimeout,
	)
	defer cancel()
	if err = srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	if err = <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("running web server: %w", err)
	}
	return nil
}

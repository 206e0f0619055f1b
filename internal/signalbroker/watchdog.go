// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/pushd/internal/ctxlog"
)

// Watch reads sigCh until it is closed. The first signal of a kind is only logged;
// the second one of the same kind cancels the context and returns.
func Watch(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Warn(ctx, "watchdog", "detail", "received second signal of type, cancelling", "signal", sig.String())
			cancel()

			return
		}

		ctxlog.Info(ctx, "watchdog", "detail", "received first signal of type, waiting for the current scope", "signal", sig.String())

		seen[sig] = struct{}{}
	}
}

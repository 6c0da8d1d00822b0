package main

import (
	"context"
	"log/slog"
	"recipecart/cmd/recipecart/commands"
	"recipecart/lib/serviceutil"
	"recipecart/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)

	ctx := serviceutil.SignalContext()
	tel, err := telemetry.SetupFromEnv(ctx, "recipecart")
	if err != nil {
		slog.Warn("failed to setup telemetry", "err", err)
	}

	err = commands.ExecuteContext(ctx)

	shutdownErr := tel.Shutdown(context.Background())
	if shutdownErr != nil {
		slog.Warn("failed to flush telemetry", "err", shutdownErr)
	}
	if err != nil {
		serviceutil.Fatal("recipecart failed", err)
	}
}

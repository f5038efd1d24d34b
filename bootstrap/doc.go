// Package bootstrap wires configuration, logging, telemetry and the plan
// engine into one application lifecycle for seqkit commands.
//
//	app, err := bootstrap.NewApp(&cfg)
//	err = app.RunTask(ctx, func(ctx context.Context, a *bootstrap.App) error {
//	    _, err := a.Engine.Run(ctx, p)
//	    return err
//	})
//
// RunTask cancels the task context on SIGINT or SIGTERM and always runs the
// OnStop hooks and telemetry shutdown afterwards.
package bootstrap

package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"

	logx "github.com/trip-planner-core-poc/server/pkg/logger"
)

// newNodeHandler logs lambda node lifecycle at debug level.
func newNodeHandler() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			logx.Debug().Str("node", info.Name).Str("type", info.Type).Msg("node start")
			return withStart(ctx)
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			logx.Debug().Str("node", info.Name).Dur("elapsed", elapsed(ctx)).Msg("node end")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("node", info.Name).Dur("elapsed", elapsed(ctx)).Msg("node failed")
			return ctx
		}).
		Build()
}

// newGraphHandler logs one line per planner turn.
func newGraphHandler() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			return withStart(ctx)
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			logx.Info().Str("graph", info.Name).Dur("elapsed", elapsed(ctx)).Msg("planner turn finished")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("graph", info.Name).Dur("elapsed", elapsed(ctx)).Msg("planner turn failed")
			return ctx
		}).
		Build()
}

// Package middleware provides composable middleware for deletion steps.
//
// A [Middleware] wraps the execution of one step of a deletion run, cleanup
// and terminal removal alike. Middleware are composed into a chain using
// [Chain]. They are applied right-to-left: the first middleware in the
// slice is the outermost wrapper.
//
//	// logging → recover → handler
//	chain := middleware.Chain(middleware.Logging(logger), middleware.Recover(logger))
//
// # Built-in Middleware
//
//   - [Logging] logs step name, kind, duration and outcome
//   - [Recover] catches panics and converts them to errors
//   - [Timeout] cancels the step context after StepInfo.Timeout
//   - [Tracing] wraps execution in an OpenTelemetry span
//   - [Metrics] records per-step duration and outcome counters
//   - [Annotate] makes the StepInfo available through [InfoFrom]
//
// # Writing Custom Middleware
//
//	func MyMiddleware() middleware.Middleware {
//	    return func(ctx context.Context, info middleware.StepInfo, next middleware.Handler) error {
//	        // pre-processing
//	        err := next(ctx)
//	        // post-processing
//	        return err
//	    }
//	}
//
// The handler of a cleanup step returns the step's tolerated failure cause,
// so middleware observes failures without being able to stop the run.
package middleware

package summary

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/pkg/ai"
)

// Result is the outcome of a single inference call. Exactly one of Summary or
// Err is meaningful.
type Result struct {
	Summary string
	Err     error
}

// Kind returns the error tag of the result, KindUnknown on success
func (r Result) Kind() entities.ErrorKind {
	if r.Err == nil {
		return entities.KindUnknown
	}
	return entities.KindOf(r.Err)
}

// Future is a pending inference call
type Future struct {
	done   chan struct{}
	result Result
}

// Await blocks until the call finishes or ctx ends. The backend call itself
// is not cancelled when ctx ends; only the wait is abandoned.
func (f *Future) Await(ctx context.Context) Result {
	select {
	case <-f.done:
		return f.result
	case <-ctx.Done():
		return Result{Err: entities.Errorf(entities.KindInference, "await summary: %w", ctx.Err())}
	}
}

// Invoker dispatches a summary request to the configured generator
type Invoker struct {
	generator ai.Generator
	logger    *zap.Logger
}

// NewInvoker creates an invoker bound to one generator
func NewInvoker(generator ai.Generator, logger *zap.Logger) *Invoker {
	return &Invoker{generator: generator, logger: logger}
}

// Invoke starts the inference call on its own goroutine and returns the
// future holding its result
func (i *Invoker) Invoke(ctx context.Context, req Request) *Future {
	f := &Future{done: make(chan struct{})}
	callCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.result = Result{Err: entities.Errorf(entities.KindInference, "generator panicked: %v", r)}
			}
		}()

		if i.logger != nil {
			i.logger.Debug("Invoking generator",
				zap.String("generator", i.generator.Name()),
				zap.String("model_id", i.generator.ModelID()),
				zap.Int("prompt_length", len(req.Prompt())),
			)
		}

		text, err := i.generator.Generate(callCtx, req.Prompt())
		if err != nil {
			if entities.KindOf(err) == entities.KindUnknown {
				err = entities.NewStageError(entities.KindInference, fmt.Errorf("%s: %w", i.generator.Name(), err))
			}
			f.result = Result{Err: err}
			return
		}
		f.result = Result{Summary: text}
	}()

	return f
}

package pipeline

import (
	"context"

	"github.com/vvka-141/pgxm/internal/catalog"
	"github.com/vvka-141/pgxm/internal/generate"
	"github.com/vvka-141/pgxm/pkg/pgxm"
)

// phases groups generators by their input set: catalog-only generators
// first, order-consuming generators second. Within a phase no generator
// observes another's output, so every member can run concurrently.
func phases() [][]generate.Generator {
	var catalogOnly, withOrder []generate.Generator
	for _, g := range generate.All() {
		if g.NeedsOrder() {
			withOrder = append(withOrder, g)
		} else {
			catalogOnly = append(catalogOnly, g)
		}
	}
	return [][]generate.Generator{catalogOnly, withOrder}
}

type taskResult struct {
	filename string
	content  []byte
	err      error
}

// runPhase executes all generators of one phase concurrently, one worker
// per ready task. The first failure cancels the phase context; tasks that
// have not started yet bail out, tasks already running finish but their
// output is discarded along with the whole phase. A failed phase aborts
// all subsequent phases in the caller.
func runPhase(ctx context.Context, gens []generate.Generator, cat *catalog.Catalog, order []string, params generate.Params, logger pgxm.Logger) (map[string][]byte, error) {
	phaseCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan taskResult, len(gens))
	for _, g := range gens {
		go func(g generate.Generator) {
			// A cancelled run is not a generation failure: surface the
			// context error bare so it keeps its own exit classification.
			if err := phaseCtx.Err(); err != nil {
				results <- taskResult{filename: g.Filename(), err: err}
				return
			}
			logger.Verbose("generating %s", g.Name())
			content, err := g.Generate(cat, order, params)
			if err != nil {
				results <- taskResult{filename: g.Filename(), err: &GenerationError{Artifact: g.Name(), Err: err}}
				return
			}
			results <- taskResult{filename: g.Filename(), content: content}
		}(g)
	}

	rendered := make(map[string][]byte, len(gens))
	var firstErr error
	for range gens {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			cancel()
			continue
		}
		rendered[res.filename] = res.content
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return rendered, nil
}

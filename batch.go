package octaindex

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// ElementError is the failure of a single batch element.
type ElementError struct {
	Index int
	Err   error
}

func (e ElementError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e ElementError) Unwrap() error { return e.Err }

// BatchResult holds the output of a fallible batch operation. Items has
// the length of the input, with the zero value wherever the element
// failed. Errors lists the failures in ascending index order.
type BatchResult[T any] struct {
	Items  []T
	Errors []ElementError
}

// OK reports whether every element succeeded.
func (r BatchResult[T]) OK() bool {
	return len(r.Errors) == 0
}

// Err combines all element errors, or returns nil.
func (r BatchResult[T]) Err() error {
	var err error
	for _, e := range r.Errors {
		err = multierr.Append(err, e)
	}
	return err
}

// Failed reports whether element i failed.
func (r BatchResult[T]) Failed(i int) bool {
	for _, e := range r.Errors {
		if e.Index == i {
			return true
		}
		if e.Index > i {
			break
		}
	}
	return false
}

type strategy uint8

const (
	strategySequential strategy = iota
	strategyBlocked
	strategyParallel
)

func (s strategy) String() string {
	switch s {
	case strategySequential:
		return "sequential"
	case strategyBlocked:
		return "blocked"
	case strategyParallel:
		return "parallel"
	default:
		return "unknown"
	}
}

func (e *Engine) strategyFor(n int) strategy {
	switch {
	case n < e.config.blockSize:
		return strategySequential
	case n < e.config.parallelThreshold || e.config.workers == 1:
		return strategyBlocked
	default:
		return strategyParallel
	}
}

// apply runs body over [0, n) in disjoint windows. Windows never overlap,
// so body may write its output range without synchronization.
func (e *Engine) apply(n int, body func(lo, hi int)) strategy {
	s := e.strategyFor(n)
	bs := e.config.blockSize

	switch s {
	case strategySequential:
		body(0, n)
	case strategyBlocked:
		for lo := 0; lo < n; lo += bs {
			body(lo, min(lo+bs, n))
		}
	case strategyParallel:
		workers := e.config.workers
		chunk := max(bs, (n+workers-1)/workers)

		var g errgroup.Group
		g.SetLimit(workers)
		for lo := 0; lo < n; lo += chunk {
			g.Go(func() error {
				body(lo, min(lo+chunk, n))
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck
	}
	return s
}

// mapBatch applies an infallible fn to every element.
func mapBatch[In, Out any](e *Engine, op string, in []In, fn func(In) Out) []Out {
	start := time.Now()
	out := make([]Out, len(in))
	s := e.apply(len(in), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = fn(in[i])
		}
	})
	e.finish(op, s, len(in), 0, start)
	return out
}

// tryBatch applies fn to every element and records failures per index.
func tryBatch[In, Out any](e *Engine, op string, in []In, fn func(In) (Out, error)) BatchResult[Out] {
	start := time.Now()
	out := make([]Out, len(in))
	errs := make([]error, len(in))
	s := e.apply(len(in), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			v, err := fn(in[i])
			if err != nil {
				errs[i] = err
				continue
			}
			out[i] = v
		}
	})

	res := BatchResult[Out]{Items: out}
	for i, err := range errs {
		if err != nil {
			res.Errors = append(res.Errors, ElementError{Index: i, Err: err})
		}
	}
	if len(res.Errors) > 0 {
		logBatchRejected(e.logger, op, res.Errors)
	}
	e.finish(op, s, len(in), len(res.Errors), start)
	return res
}

func (e *Engine) finish(op string, s strategy, n, failed int, start time.Time) {
	e.metrics.observe(op, s, n, failed, start)
	logBatchDone(e.logger, op, s, n, time.Since(start))
}

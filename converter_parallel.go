package semdb

import (
	"context"
	"runtime"
	"sync"
)

// convertTask tags an entry with its input index so workers can write
// results straight into a pre-sized slice.
type convertTask struct {
	index int
	entry string
}

// convertParallel converts entries on a bounded worker pool. Each worker
// pulls index-tagged tasks and writes into its task's slot, so input
// order survives regardless of completion order and no post-hoc sorting
// is needed. Workers share no state beyond the cache store, which is safe
// under concurrent access.
func (c *Converter) convertParallel(ctx context.Context, entries []string) ([]string, []*EntryError) {
	tasks := make(chan convertTask, len(entries))
	for i, entry := range entries {
		tasks <- convertTask{index: i, entry: entry}
	}
	close(tasks)

	outputs := make([]string, len(entries))
	slotErrs := make([]*EntryError, len(entries))

	workers := c.workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				// Abandon pending tasks once cancelled; convertEntry
				// checks again before committing anything.
				if ctx.Err() != nil {
					continue
				}
				out, err := c.convertEntry(ctx, task.entry)
				if err != nil {
					slotErrs[task.index] = &EntryError{Entry: task.entry, Err: err}
					continue
				}
				outputs[task.index] = out
			}
		}()
	}
	wg.Wait()

	var errs []*EntryError
	for _, e := range slotErrs {
		if e != nil {
			errs = append(errs, e)
		}
	}
	return outputs, errs
}

package renderer

import (
	"context"
	"runtime"
	"sync"
)

// LineTask represents one scanline to render
type LineTask struct {
	Row int
}

// LineResult contains the result from rendering a scanline
type LineResult struct {
	Row   int
	Stats RenderStats
	Error error
}

// WorkerPool manages parallel scanline rendering
type WorkerPool struct {
	taskQueue   chan LineTask
	resultQueue chan LineResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual scanline tasks
type Worker struct {
	ID          int
	ctx         context.Context
	raytracer   *Raytracer
	buffer      []float64 // Shared pixel buffer; rows never overlap
	taskQueue   chan LineTask
	resultQueue chan LineResult
}

// NewWorkerPool creates a worker pool that renders into buffer. maxTasks
// bounds the number of tasks submitted before results are drained.
func NewWorkerPool(ctx context.Context, raytracer *Raytracer, buffer []float64, maxTasks, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan LineTask, maxTasks),
		resultQueue: make(chan LineResult, maxTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			ctx:         ctx,
			raytracer:   raytracer,
			buffer:      buffer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a scanline task to the worker pool
func (wp *WorkerPool) SubmitTask(task LineTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed scanline result
func (wp *WorkerPool) GetResult() (LineResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Cancelled renders drain the queue without tracing
		if err := w.ctx.Err(); err != nil {
			w.resultQueue <- LineResult{Row: task.Row, Error: err}
			continue
		}

		stats := w.raytracer.RenderLine(task.Row, w.buffer)
		w.resultQueue <- LineResult{Row: task.Row, Stats: stats}
	}
}

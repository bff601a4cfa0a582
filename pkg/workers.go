package mada

import (
	"fmt"
	"sync"
)

type frameJob struct {
	index int
	data  []byte
}

func frameWorker(id int, configuration Configuration, jobs <-chan frameJob, results chan<- FrameResult) {
	for job := range jobs {
		if configuration.Verbosity > 2 {
			message := fmt.Sprintf("Worker %d processing frame %d", id, job.index)
			logger.Info(message, "workers")
		}
		results <- decodeFrameSafe(job.index, job.data, configuration.ClockDepth)
	}
}

// decodeFrameSafe turns a panic while decoding into a skipped frame.
func decodeFrameSafe(index int, frame []byte, clockDepth int) (result FrameResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("decoder recovered from panic: %v", r)
			result = FrameResult{Index: index, Outcome: Skipped, Err: &FrameError{Index: index, Err: err}}
		}
	}()
	return DecodeFrame(index, frame, clockDepth)
}

// decodeFrames decodes every frame and returns the results indexed by frame position,
// whatever order the workers finish in.
func decodeFrames(frames [][]byte, configuration Configuration) []FrameResult {
	results := make([]FrameResult, len(frames))
	if configuration.NumWorkers <= 1 || len(frames) < 2 {
		for i, frame := range frames {
			results[i] = decodeFrameSafe(i, frame, configuration.ClockDepth)
		}
		return results
	}

	jobs := make(chan frameJob, configuration.NumWorkers)
	out := make(chan FrameResult, configuration.NumWorkers)

	var wg sync.WaitGroup
	for w := 1; w <= configuration.NumWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			frameWorker(id, configuration, jobs, out)
		}(w)
	}

	go func() {
		for i, frame := range frames {
			jobs <- frameJob{index: i, data: frame}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	for result := range out {
		results[result.Index] = result
	}
	return results
}

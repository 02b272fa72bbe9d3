package post

// ProcessorBuilderOption is a functional option for configuring a Processor via NewProcessor.
type ProcessorBuilderOption func(*processor)

// WithWorkers is an option builder that sets the number of pooled workers used
// for scanline-parallel kernel execution. Defaults to NumCPU-1 (minimum 1).
//
// Parameters:
//   - workers: the worker count (values < 1 are clamped to 1)
//
// Returns:
//   - ProcessorBuilderOption: a function that applies the workers option to a processor
func WithWorkers(workers int) ProcessorBuilderOption {
	return func(p *processor) {
		if workers < 1 {
			workers = 1
		}
		p.workers = workers
	}
}

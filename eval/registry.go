package eval

import "github.com/coragent/coor-agent/coorerr"

// Registry looks up a Benchmark by name so the CLI and HTTP surfaces
// can refer to benchmarks by a short string instead of constructing
// them directly.
type Registry struct {
	benchmarks map[string]func() Benchmark
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{benchmarks: make(map[string]func() Benchmark)}
}

// Register adds a benchmark constructor under name (case-insensitive).
func (r *Registry) Register(name string, newBenchmark func() Benchmark) {
	r.benchmarks[normalize(name)] = newBenchmark
}

// Get constructs the benchmark registered under name.
func (r *Registry) Get(name string) (Benchmark, error) {
	newBenchmark, ok := r.benchmarks[normalize(name)]
	if !ok {
		return nil, coorerr.New(coorerr.NotFound, "EvalRegistry", "Get", "benchmark not found: "+name, nil)
	}
	return newBenchmark(), nil
}

// List returns the name/version of every registered benchmark.
func (r *Registry) List() []BenchmarkInfo {
	infos := make([]BenchmarkInfo, 0, len(r.benchmarks))
	for _, newBenchmark := range r.benchmarks {
		b := newBenchmark()
		infos = append(infos, BenchmarkInfo{Name: b.Name(), Version: b.Version()})
	}
	return infos
}

// BenchmarkInfo describes a registered benchmark.
type BenchmarkInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

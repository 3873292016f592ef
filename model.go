package qsearch

/*
SearchModel is the boundary between the closed-form search math and
everything that consumes it. Backends, the benchmark driver and report sinks
depend on this interface only, so a different model can be dropped in
without touching them.
*/
type SearchModel interface {
	OptimalIterations(n int) (int, error)
	SuccessProbability(n, k int) (float64, error)
	ClassicalWorstCase(n int) (int, error)
	ClassicalAverageCase(n int) (float64, error)
}

// Analytic is the closed-form SearchModel.
type Analytic struct{}

func NewAnalytic() *Analytic {
	return &Analytic{}
}

func (Analytic) OptimalIterations(n int) (int, error) {
	return OptimalIterations(n)
}

func (Analytic) SuccessProbability(n, k int) (float64, error) {
	return SuccessProbability(n, k)
}

func (Analytic) ClassicalWorstCase(n int) (int, error) {
	return ClassicalWorstCase(n)
}

func (Analytic) ClassicalAverageCase(n int) (float64, error) {
	return ClassicalAverageCase(n)
}

package forecast

import "math"

// Model forecasts a single series h steps ahead.
type Model interface {
	Name() string
	Forecast(y []float64, h int) ([]float64, error)
}

// CrostonOptimized is Croston's method for intermittent demand with the
// smoothing parameters of both the demand sizes and the inter-demand intervals
// chosen in [0.1, 0.3] by minimizing in-sample squared error.
type CrostonOptimized struct{}

const (
	sesLowerAlpha = 0.1
	sesUpperAlpha = 0.3
	sesTolerance  = 1e-5
)

func (CrostonOptimized) Name() string { return "CrostonOptimized" }

// Forecast returns h copies of the smoothed demand rate. A series without any
// demand forecasts zero.
func (CrostonOptimized) Forecast(y []float64, h int) ([]float64, error) {
	if len(y) == 0 {
		return nil, ErrEmptyHistory
	}

	sizes := demandSizes(y)
	mean := 0.0
	if len(sizes) > 0 {
		size := optimizedSES(sizes)
		interval := optimizedSES(demandIntervals(y))
		if interval != 0 {
			mean = size / interval
		} else {
			mean = size
		}
	}

	out := make([]float64, h)
	for i := range out {
		out[i] = mean
	}
	return out, nil
}

// demandSizes returns the non-zero observations.
func demandSizes(y []float64) []float64 {
	out := make([]float64, 0, len(y))
	for _, v := range y {
		if v != 0 {
			out = append(out, v)
		}
	}
	return out
}

// demandIntervals returns the number of periods between consecutive demands,
// the first counted from the start of the series.
func demandIntervals(y []float64) []float64 {
	out := make([]float64, 0, len(y))
	prev := 0
	for i, v := range y {
		if v != 0 {
			out = append(out, float64(i+1-prev))
			prev = i + 1
		}
	}
	return out
}

func optimizedSES(x []float64) float64 {
	alpha := goldenSection(func(a float64) float64 { return sesSSE(a, x) }, sesLowerAlpha, sesUpperAlpha, sesTolerance)
	return sesForecast(x, alpha)
}

// sesSSE is the one-step-ahead squared error of simple exponential smoothing
// initialised at the first observation.
func sesSSE(alpha float64, x []float64) float64 {
	level := x[0]
	sse := 0.0
	for i := 1; i < len(x); i++ {
		level = alpha*x[i-1] + (1-alpha)*level
		diff := x[i] - level
		sse += diff * diff
	}
	return sse
}

// sesForecast returns the next-period forecast after smoothing all of x.
func sesForecast(x []float64, alpha float64) float64 {
	level := x[0]
	for i := 1; i < len(x); i++ {
		level = alpha*x[i-1] + (1-alpha)*level
	}
	return alpha*x[len(x)-1] + (1-alpha)*level
}

// goldenSection minimizes a unimodal f on [lo, hi].
func goldenSection(f func(float64) float64, lo, hi, tol float64) float64 {
	invPhi := (math.Sqrt(5) - 1) / 2

	c := hi - invPhi*(hi-lo)
	d := lo + invPhi*(hi-lo)
	fc, fd := f(c), f(d)
	for math.Abs(hi-lo) > tol {
		if fc <= fd {
			hi, d, fd = d, c, fc
			c = hi - invPhi*(hi-lo)
			fc = f(c)
		} else {
			lo, c, fc = c, d, fd
			d = lo + invPhi*(hi-lo)
			fd = f(d)
		}
	}
	return (lo + hi) / 2
}

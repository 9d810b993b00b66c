package maze

import "math"

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Next advances an LCG state and returns the drawn value in [0, 1) together
// with the new state. It is a pure function, so equal states always yield
// equal streams.
func Next(state int64) (float64, int64) {
	state = (state*lcgMultiplier + lcgIncrement) % lcgModulus
	if state < 0 {
		state += lcgModulus
	}
	return float64(state) / lcgModulus, state
}

// Random is the only randomness source used during generation.
type Random struct {
	state int64
}

// NewRandom seeds a generator. The seed is reduced modulo the LCG modulus
// first, which leaves the produced stream unchanged.
func NewRandom(seed int64) *Random {
	state := seed % lcgModulus
	if state < 0 {
		state += lcgModulus
	}
	return &Random{state: state}
}

// Float64 returns the next value in [0, 1).
func (r *Random) Float64() float64 {
	var v float64
	v, r.state = Next(r.state)
	return v
}

// Intn returns floor(Float64()*n). A draw is consumed even when n <= 0, in
// which case the result is 0.
func (r *Random) Intn(n int) int {
	v := r.Float64()
	if n <= 0 {
		return 0
	}
	return int(math.Floor(v * float64(n)))
}

// Shuffle permutes n elements with a Fisher-Yates pass running from the end.
func (r *Random) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, r.Intn(i+1))
	}
}

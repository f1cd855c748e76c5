// Package floatsum implements equivalent float32 summation kernels that
// differ only in how many independent accumulator chains they expose to
// the CPU.
package floatsum

// SumNaive reduces x through a single accumulator, so every addition
// waits on the previous one.
func SumNaive(x []float32) float32 {
	var sum float32
	for i := 0; i < len(x); i++ {
		sum += x[i]
	}
	return sum
}

// SumILP splits x into groups of 4 and feeds each position of a group
// into its own accumulator, breaking the dependency chain four ways.
// Trailing elements that don't fill a group are added sequentially after
// the four lanes are combined.
func SumILP(x []float32) float32 {
	var a0, a1, a2, a3 float32
	i := 0
	for ; i+4 <= len(x); i += 4 {
		a0 += x[i]
		a1 += x[i+1]
		a2 += x[i+2]
		a3 += x[i+3]
	}
	sum := a0 + a1 + a2 + a3
	for ; i < len(x); i++ {
		sum += x[i]
	}
	return sum
}

// SumILPFold is SumILP with the accumulators held in a [4]float32 value
// that each step replaces wholesale, instead of four named variables.
// The accumulation order is the same, so the result is bit-identical to
// SumILP for every input.
func SumILPFold(x []float32) float32 {
	var acc [4]float32
	for len(x) >= 4 {
		acc = [4]float32{acc[0] + x[0], acc[1] + x[1], acc[2] + x[2], acc[3] + x[3]}
		x = x[4:]
	}
	sum := acc[0] + acc[1] + acc[2] + acc[3]
	for i := 0; i < len(x); i++ {
		sum += x[i]
	}
	return sum
}

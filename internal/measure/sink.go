package measure

// sink defeats dead-code elimination: benchmark bodies fold their outputs
// here so the compiler must keep the measured work.
var sink int64

// Consume folds v into the package sink.
func Consume(v int) {
	sink ^= int64(v)
}

// Fold combines two benchmark outputs with XOR.
func Fold(x, y int) int {
	return x ^ y
}

// Sink reports the accumulated fold so the value stays observable from
// outside the package.
func Sink() int64 {
	return sink
}

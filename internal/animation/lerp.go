package animation

// Lerper is implemented by values that can be blended linearly toward another
// value of the same type. factor is expected in [0,1].
type Lerper[V any] interface {
	Lerp(end V, factor float32) V
}

// Scalar is a float32 that satisfies Lerper.
type Scalar float32

// Lerp returns s + factor*(end-s).
func (s Scalar) Lerp(end Scalar, factor float32) Scalar {
	return s + Scalar(factor)*(end-s)
}

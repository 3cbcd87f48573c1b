package ndarray

// BroadcastShapes returns the shape that all inputs broadcast to under numpy
// rules: shapes are right-aligned and each axis must match or be 1.
func BroadcastShapes(shapes ...[]int) ([]int, error) {
	nd := 0
	for _, s := range shapes {
		if len(s) > nd {
			nd = len(s)
		}
	}
	out := make([]int, nd)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		off := nd - len(s)
		for d, n := range s {
			switch cur := out[off+d]; {
			case cur == n, n == 1:
			case cur == 1:
				out[off+d] = n
			default:
				cp := make([][]int, len(shapes))
				for i, s := range shapes {
					cp[i] = append([]int{}, s...)
				}
				return nil, &ShapeMismatchError{Shapes: cp}
			}
		}
	}
	return out, nil
}

// broadcastStrides maps shape onto out: strides for broadcast (size 1 or
// missing) axes are 0 so the same element is revisited.
func broadcastStrides(shape, out []int) []int {
	natural := strides(shape)
	s := make([]int, len(out))
	off := len(out) - len(shape)
	for d := range shape {
		if shape[d] != 1 || out[off+d] == 1 {
			s[off+d] = natural[d]
		}
	}
	return s
}

// Apply evaluates fn elementwise over the broadcast of arrs. fn receives one
// value per input, in argument order; the slice is reused between calls.
func Apply(fn func(xs []float64) float64, arrs ...Array) (Array, error) {
	shapes := make([][]int, len(arrs))
	for i, a := range arrs {
		shapes[i] = a.shape
	}
	out, err := BroadcastShapes(shapes...)
	if err != nil {
		return Array{}, err
	}

	n := product(out)
	st := make([][]int, len(arrs))
	for i, a := range arrs {
		st[i] = broadcastStrides(a.shape, out)
	}

	res := make([]float64, n)
	idx := make([]int, len(out))
	offs := make([]int, len(arrs))
	xs := make([]float64, len(arrs))
	for k := 0; k < n; k++ {
		for i := range arrs {
			xs[i] = arrs[i].data[offs[i]]
		}
		res[k] = fn(xs)

		for d := len(out) - 1; d >= 0; d-- {
			idx[d]++
			for i := range arrs {
				offs[i] += st[i][d]
			}
			if idx[d] < out[d] {
				break
			}
			for i := range arrs {
				offs[i] -= st[i][d] * out[d]
			}
			idx[d] = 0
		}
	}
	return Array{shape: out, data: res}, nil
}

package quadric

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Accumulator summarizes a sample set as AᵀA, BᵀB and BᵀN, where A stacks one
// algebraic row per sample, B stacks three gradient rows per sample and N
// stacks the normals. The sums do not depend on sample order beyond floating
// point rounding, so partial accumulators can be merged in any order.
type Accumulator struct {
	ata   [NumCoefficients][NumCoefficients]float64
	btb   [NumCoefficients][NumCoefficients]float64
	btn   [NumCoefficients]float64
	count int
}

// NewAccumulator returns an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add folds one sample into the sums
func (acc *Accumulator) Add(s Sample) {
	a := algebraicRow(s.Position)
	for i := 0; i < NumCoefficients; i++ {
		if a[i] == 0 {
			continue
		}
		for j := 0; j < NumCoefficients; j++ {
			acc.ata[i][j] += a[i] * a[j]
		}
	}

	n := [3]float64{s.Normal.X, s.Normal.Y, s.Normal.Z}
	for axis, row := range gradientRows(s.Position) {
		for i := 0; i < NumCoefficients; i++ {
			if row[i] == 0 {
				continue
			}
			for j := 0; j < NumCoefficients; j++ {
				acc.btb[i][j] += row[i] * row[j]
			}
			acc.btn[i] += row[i] * n[axis]
		}
	}
	acc.count++
}

// Merge adds the sums of other into acc
func (acc *Accumulator) Merge(other *Accumulator) {
	for i := 0; i < NumCoefficients; i++ {
		for j := 0; j < NumCoefficients; j++ {
			acc.ata[i][j] += other.ata[i][j]
			acc.btb[i][j] += other.btb[i][j]
		}
		acc.btn[i] += other.btn[i]
	}
	acc.count += other.count
}

// Count returns the number of samples added
func (acc *Accumulator) Count() int {
	return acc.count
}

// AtA returns a copy of AᵀA
func (acc *Accumulator) AtA() *mat.SymDense {
	return symFromArray(&acc.ata)
}

// BtB returns a copy of BᵀB
func (acc *Accumulator) BtB() *mat.SymDense {
	return symFromArray(&acc.btb)
}

// BtN returns a copy of BᵀN
func (acc *Accumulator) BtN() *mat.VecDense {
	data := make([]float64, NumCoefficients)
	copy(data, acc.btn[:])
	return mat.NewVecDense(NumCoefficients, data)
}

func symFromArray(a *[NumCoefficients][NumCoefficients]float64) *mat.SymDense {
	s := mat.NewSymDense(NumCoefficients, nil)
	for i := 0; i < NumCoefficients; i++ {
		for j := i; j < NumCoefficients; j++ {
			s.SetSym(i, j, a[i][j])
		}
	}
	return s
}

func validateSamples(samples []Sample) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}
	for i, s := range samples {
		if !s.Position.IsFinite() || !s.Normal.IsFinite() {
			return fmt.Errorf("sample %d: %w", i, ErrInvalidSample)
		}
	}
	return nil
}

// Accumulate builds the sums for all samples sequentially
func Accumulate(samples []Sample) (*Accumulator, error) {
	if err := validateSamples(samples); err != nil {
		return nil, err
	}
	acc := NewAccumulator()
	for _, s := range samples {
		acc.Add(s)
	}
	return acc, nil
}

// AccumulateParallel splits the samples into one chunk per worker, accumulates
// the chunks concurrently and merges the partial sums.
func AccumulateParallel(ctx context.Context, samples []Sample, workers int) (*Accumulator, error) {
	if workers <= 1 || len(samples) < 2*workers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Accumulate(samples)
	}
	if err := validateSamples(samples); err != nil {
		return nil, err
	}

	partial := make([]*Accumulator, workers)
	chunk := (len(samples) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(samples))
		if start >= end {
			break
		}
		w := w
		g.Go(func() error {
			acc := NewAccumulator()
			for i, s := range samples[start:end] {
				if i%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				acc.Add(s)
			}
			partial[w] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := NewAccumulator()
	for _, acc := range partial {
		if acc != nil {
			total.Merge(acc)
		}
	}
	return total, nil
}

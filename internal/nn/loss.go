package nn

import (
	"fmt"
)

// MSE computes the mean squared error of m over a dataset.
//
// Loss = mean((targets - outputs)²), averaged over every output of every
// example. An empty dataset has zero loss.
func MSE(m Module, inputs, targets [][]float64) (float64, error) {
	if err := checkLen("MSE", "targets", len(targets), len(inputs)); err != nil {
		return 0, err
	}

	var sum float64
	var count int
	for i, input := range inputs {
		out, err := m.Activate(input)
		if err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		if err := checkLen("MSE", fmt.Sprintf("target %d", i), len(targets[i]), len(out)); err != nil {
			return 0, err
		}
		for j, o := range out {
			d := targets[i][j] - o
			sum += d * d
		}
		count += len(out)
	}

	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

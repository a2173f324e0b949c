package nn

// TrainConfig holds the hyperparameters of a randomly initialized network.
type TrainConfig struct {
	Epochs       int     // Passes over the training set
	LearningRate float64 // Learning rate of every node
	Seed         int64   // Weight initialization seed (0 = DefaultSeed)
	Hidden       []int   // Hidden layer widths
	Activation   string  // Activation name (see ActivationByName)
}

// DefaultConfig returns settings that learn XOR with a 2-2-1 network.
func DefaultConfig() TrainConfig {
	return TrainConfig{
		Epochs:       5000,
		LearningRate: 0.5,
		Seed:         DefaultSeed,
		Hidden:       []int{2},
		Activation:   Sigmoid{}.Name(),
	}
}

// Build creates a network for inputs features and outputs targets with the
// configured hidden layers.
func (c TrainConfig) Build(inputs, outputs int) (*Network, error) {
	act, err := ActivationByName(c.Activation)
	if err != nil {
		return nil, err
	}
	sizes := make([]int, 0, len(c.Hidden)+2)
	sizes = append(sizes, inputs)
	sizes = append(sizes, c.Hidden...)
	sizes = append(sizes, outputs)
	return NewRandomNetwork(sizes, c.LearningRate, act, NewRand(c.Seed))
}

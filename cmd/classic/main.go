// Package main provides the classic CLI: small demos of every package in the
// module.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/classic/apriori"
	"github.com/born-ml/classic/approx"
	"github.com/born-ml/classic/donut"
	"github.com/born-ml/classic/nn"
	"github.com/born-ml/classic/prime"
)

const version = "v0.1.0"

var errUsage = errors.New("usage")

var gateInputs = [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

var gateTargets = map[string][][]float64{
	"and": {{0}, {0}, {0}, {1}},
	"or":  {{0}, {1}, {1}, {1}},
	"xor": {{0}, {1}, {1}, {0}},
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatalf("classic: %v", err)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "version":
		fmt.Fprintf(out, "classic %s\n", version)
		return nil
	case "gates":
		return runGates(out)
	case "train":
		return runTrain(rest, out)
	case "eval":
		return runEval(rest, out)
	case "apriori":
		return runApriori(rest, out)
	case "donut":
		return runDonut(rest, out)
	case "primes":
		return runPrimes(rest, out)
	case "pi":
		return runPi(rest, out)
	case "e":
		return runE(rest, out)
	case "rsqrt":
		return runRsqrt(rest, out)
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		fmt.Fprintf(out, "unknown command %q\n\n", cmd)
		usage(out)
		return errUsage
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "classic - textbook machine learning and numerics")
	fmt.Fprintf(out, "Version: %s\n\n", version)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  version    Show version")
	fmt.Fprintln(out, "  gates      Truth tables of perceptron AND, OR and half adder")
	fmt.Fprintln(out, "  train      Train a network on a logic gate")
	fmt.Fprintln(out, "  eval       Print the truth table of a saved network")
	fmt.Fprintln(out, "  apriori    Best lift partner of a product in a transactions CSV")
	fmt.Fprintln(out, "  donut      Spinning ASCII donut")
	fmt.Fprintln(out, "  primes     Count primes up to n")
	fmt.Fprintln(out, "  pi         Monte Carlo estimate of pi")
	fmt.Fprintln(out, "  e          Series estimate of e")
	fmt.Fprintln(out, "  rsqrt      Fast inverse square root of each argument")
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func runGates(out io.Writer) error {
	and := nn.NewPerceptron([]float64{1, 1}, -2)
	or := nn.NewPerceptron([]float64{1, 1}, -1)

	hidden, err := nn.NewLayer(
		nn.NewPerceptron([]float64{1, -1}, -1),
		nn.NewPerceptron([]float64{-1, 1}, -1),
		nn.NewPerceptron([]float64{1, 1}, -2),
	)
	if err != nil {
		return err
	}
	output, err := nn.NewLayer(
		nn.NewPerceptron([]float64{0, 0, 1}, -1),
		nn.NewPerceptron([]float64{1, 1, 0}, -1),
	)
	if err != nil {
		return err
	}
	adder, err := nn.NewNetwork(hidden, output)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "a b | and or | carry sum")
	for _, in := range gateInputs {
		a, err := and.Activate(in)
		if err != nil {
			return err
		}
		o, err := or.Activate(in)
		if err != nil {
			return err
		}
		cs, err := adder.Activate(in)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%g %g |  %g   %g |   %g    %g\n", in[0], in[1], a, o, cs[0], cs[1])
	}
	return nil
}

func runTrain(args []string, out io.Writer) error {
	cfg := nn.DefaultConfig()

	fs := newFlagSet("train", out)
	gate := fs.String("gate", "xor", "Gate to learn: and, or, xor")
	fs.IntVar(&cfg.Epochs, "epochs", cfg.Epochs, "Number of training epochs")
	fs.Float64Var(&cfg.LearningRate, "lr", cfg.LearningRate, "Learning rate")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Weight initialization seed")
	fs.StringVar(&cfg.Activation, "activation", cfg.Activation, "Activation: sigmoid, tanh, relu")
	hidden := fs.String("hidden", "2", "Comma-separated hidden layer widths (empty for none)")
	logEvery := fs.Int("log-every", 1000, "Print the loss every n epochs (0 = never)")
	save := fs.String("save", "", "Write the trained network to this checkpoint file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	targets, ok := gateTargets[*gate]
	if !ok {
		return fmt.Errorf("unknown gate %q", *gate)
	}
	widths, err := parseWidths(*hidden)
	if err != nil {
		return err
	}
	cfg.Hidden = widths

	net, err := cfg.Build(2, 1)
	if err != nil {
		return fmt.Errorf("failed to build network: %w", err)
	}

	fmt.Fprintf(out, "Training %s: hidden=%v lr=%g epochs=%d seed=%d\n",
		*gate, cfg.Hidden, cfg.LearningRate, cfg.Epochs, cfg.Seed)

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if err := net.Epoch(gateInputs, targets); err != nil {
			return err
		}
		if *logEvery > 0 && epoch%*logEvery == 0 {
			loss, err := net.Loss(gateInputs, targets)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  epoch %6d  loss %.6f\n", epoch, loss)
		}
	}

	loss, err := net.Loss(gateInputs, targets)
	if err != nil {
		return err
	}
	if err := printTruthTable(out, net, targets); err != nil {
		return err
	}
	fmt.Fprintf(out, "Final loss: %.6f\n", loss)

	if *save != "" {
		ckpt := nn.Checkpoint{
			Epoch:    cfg.Epochs,
			Loss:     loss,
			Metadata: map[string]string{"gate": *gate},
		}
		if err := nn.SaveFile(*save, net, ckpt); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved %s\n", *save)
	}
	return nil
}

func runEval(args []string, out io.Writer) error {
	fs := newFlagSet("eval", out)
	model := fs.String("model", "", "Checkpoint written by train -save")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *model == "" {
		return errors.New("eval: -model is required")
	}

	net, ckpt, err := nn.Load(*model)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %s: gate=%s epochs=%d loss=%.6f\n", *model, ckpt.Metadata["gate"], ckpt.Epoch, ckpt.Loss)
	return printTruthTable(out, net, gateTargets[ckpt.Metadata["gate"]])
}

// printTruthTable prints the network output for every gate input; targets
// may be nil.
func printTruthTable(out io.Writer, net *nn.Network, targets [][]float64) error {
	for i, in := range gateInputs {
		o, err := net.Predict(in)
		if err != nil {
			return err
		}
		if targets != nil {
			fmt.Fprintf(out, "  %v -> %.4f (want %g)\n", in, o[0], targets[i][0])
		} else {
			fmt.Fprintf(out, "  %v -> %.4f\n", in, o[0])
		}
	}
	return nil
}

func parseWidths(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var widths []int
	for _, field := range strings.Split(s, ",") {
		w, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || w < 1 {
			return nil, fmt.Errorf("invalid hidden width %q", field)
		}
		widths = append(widths, w)
	}
	return widths, nil
}

func runApriori(args []string, out io.Writer) error {
	fs := newFlagSet("apriori", out)
	file := fs.String("file", "", "Transactions CSV (first line is a header)")
	item := fs.String("item", "", "Product to find a partner for")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *file == "" || *item == "" {
		return errors.New("apriori: -file and -item are required")
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	txs, err := apriori.ReadTransactions(f)
	if err != nil {
		return err
	}
	given := apriori.NewItemset(*item)
	support, err := apriori.Support(given, txs)
	if err != nil {
		return err
	}
	lift, product, err := apriori.BestLift(given, txs)
	if err != nil {
		return err
	}
	confidence, err := apriori.Confidence(given, product, txs)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Transactions: %d\n", len(txs))
	fmt.Fprintf(out, "Support:      %.4f\n", support)
	fmt.Fprintf(out, "Best lift:    %.4f with %s (confidence %.4f)\n", lift, product, confidence)
	return nil
}

func runDonut(args []string, out io.Writer) error {
	fs := newFlagSet("donut", out)
	frames := fs.Int("frames", donut.Size*donut.Size, "Number of frames to render")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return donut.Run(out, *frames, 0, 0)
}

func runPrimes(args []string, out io.Writer) error {
	fs := newFlagSet("primes", out)
	n := fs.Int("n", 1_000_000, "Upper bound (inclusive)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	fmt.Fprintf(out, "%d primes <= %d\n", prime.Count(*n), *n)
	return nil
}

func runPi(args []string, out io.Writer) error {
	fs := newFlagSet("pi", out)
	iters := fs.Int("iters", 1_000_000, "Number of samples")
	seed := fs.Int64("seed", 1, "Random seed")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	pi, err := approx.Pi(*iters, nn.NewRand(*seed))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "pi ~ %.6f (error %.2e)\n", pi, math.Abs(pi-math.Pi))
	return nil
}

func runE(args []string, out io.Writer) error {
	fs := newFlagSet("e", out)
	n := fs.Int("n", 20, "Number of series terms")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	e := approx.E(*n)
	fmt.Fprintf(out, "e ~ %.15f (error %.2e)\n", e, math.Abs(e-math.E))
	return nil
}

func runRsqrt(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("rsqrt: need at least one number")
	}
	for _, arg := range args {
		x, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return fmt.Errorf("rsqrt: %w", err)
		}
		fast := approx.FastInvSqrt(float32(x))
		fmt.Fprintf(out, "1/sqrt(%s) ~ %.8f (exact %.8f)\n", arg, fast, 1/math.Sqrt(x))
	}
	return nil
}

// Command sumbench measures the throughput of the floatsum summation kernels.
//
// To benchmark: `go run ./cmd/sumbench bench`
//
// To cross-check the kernels against each other: `go run ./cmd/sumbench check`
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/ahmedtd/sumbench/floatsum"
	"github.com/google/subcommands"
	"github.com/sbinet/npyio"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&BenchCommand{}, "")
	subcommands.Register(&CheckCommand{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

// sumFuncs is the kernel table shared by the bench and check subcommands.
var sumFuncs = []struct {
	name string
	impl func([]float32) float32
}{
	{"naive", floatsum.SumNaive},
	{"ilp", floatsum.SumILP},
	{"ilp-fold", floatsum.SumILPFold},
}

// sink keeps the measured calls from being optimized away. The input
// buffer is only known at run time, so the sums cannot be precomputed.
var sink float32

type BenchCommand struct {
	size     int
	fill     float64
	dataFile string
	impl     string

	cpuProfileFile string
}

var _ subcommands.Command = (*BenchCommand)(nil)

func (*BenchCommand) Name() string {
	return "bench"
}

func (*BenchCommand) Synopsis() string {
	return "Measure summation throughput"
}

func (*BenchCommand) Usage() string {
	return ``
}

func (c *BenchCommand) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.size, "size", 40000000, "Number of elements in the input buffer")
	f.Float64Var(&c.fill, "fill", 1.1, "Value stored in every element of the input buffer")
	f.StringVar(&c.dataFile, "data-file", "", "Load the input buffer from a float32 .npy file instead of filling it")
	f.StringVar(&c.impl, "impl", "", "Only run kernels whose name contains this substring")

	f.StringVar(&c.cpuProfileFile, "cpu-profile", "", "Write a CPU profile")
}

func (c *BenchCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *BenchCommand) executeErr(ctx context.Context) error {
	if c.cpuProfileFile != "" {
		f, err := os.Create(c.cpuProfileFile)
		if err != nil {
			return fmt.Errorf("while creating CPU profile file: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("while starting CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	data, err := c.makeInput()
	if err != nil {
		return err
	}

	log.Printf("Summing %d elements per call", len(data))

	for _, fn := range sumFuncs {
		if c.impl != "" && !strings.Contains(fn.name, c.impl) {
			continue
		}

		impl := fn.impl
		result := testing.Benchmark(func(b *testing.B) {
			b.SetBytes(int64(len(data) * 4))
			for i := 0; i < b.N; i++ {
				sink = impl(data)
			}
		})

		gbSec := float64(result.Bytes) * float64(result.N) / (result.T.Seconds() * 1024 * 1024 * 1024)
		fmt.Printf("%-10s %10d iters %14d ns/op %8.2f Gb/sec sum=%v\n",
			fn.name+":", result.N, result.NsPerOp(), gbSec, sink)
	}

	return nil
}

func (c *BenchCommand) makeInput() ([]float32, error) {
	if c.dataFile != "" {
		f, err := os.Open(c.dataFile)
		if err != nil {
			return nil, fmt.Errorf("while opening data file: %w", err)
		}
		defer f.Close()

		var data []float32
		if err := npyio.Read(f, &data); err != nil {
			return nil, fmt.Errorf("while reading %s: %w", c.dataFile, err)
		}
		return data, nil
	}

	if c.size < 0 {
		return nil, fmt.Errorf("invalid buffer size %d", c.size)
	}
	data := make([]float32, c.size)
	for i := range data {
		data[i] = float32(c.fill)
	}
	return data, nil
}

package kv

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/localdata/cmd/util"
	"github.com/ValentinKolb/localdata/lib/localdata"
	"github.com/ValentinKolb/localdata/lib/persist"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the typed stores and the save file",
		Long:    util.WrapString("Runs the benchmarks against a scratch save file in a temporary directory, using the configured serializer and cryptographer."),
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix = "__test"
	perfKeySpread = 1000
	perfSkip      = make([]string, 0)
)

func init() {
	// the benchmarks never touch the configured save file
	perfTestCmd.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
	perfTestCmd.PersistentPostRunE = func(*cobra.Command, []string) error { return nil }

	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for localdata")

	settings, err := util.GetSettings()
	if err != nil {
		return err
	}
	dir, err := os.MkdirTemp("", "ldata-perf-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	settings.Directory = dir

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(settings.String())
	fmt.Printf("Keys: %d\n", perfKeySpread)
	fmt.Println()

	scratch, err := localdata.New(settings)
	if err != nil {
		return err
	}
	if err := scratch.Init(); err != nil {
		return err
	}

	fmt.Println("starting tests...")

	results := make(map[string]testing.BenchmarkResult)
	bench := func(name string, fn func(b *testing.B)) {
		result := testing.Benchmark(func(b *testing.B) {
			if shouldSkip(name) {
				return
			}
			fn(b)
		})
		results[name] = result
		printResult(name, result)
	}

	getKey, iter := getKeys("kv")

	bench("set", func(b *testing.B) {
		b.Cleanup(func() { localdata.DeleteAllOf[int](scratch) })
		for i := 0; i < b.N; i++ {
			localdata.Set(scratch, getKey(i), i)
		}
	})

	// fill the store for the read and persistence tests
	iter(func(i int, k string) { localdata.Set(scratch, k, i) })

	bench("get", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = localdata.Get(scratch, getKey(i), 0)
		}
	})

	bench("find", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = localdata.FirstKeyForValue(scratch, i%perfKeySpread)
		}
	})

	for _, encrypt := range []bool{false, true} {
		mode := "plain"
		if encrypt {
			mode = "encrypted"
		}

		bench("save-"+mode, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if err := scratch.SaveWith(encrypt); err != nil {
					b.Fatalf("(save-%s) - %v", mode, err)
				}
			}
		})

		bench("load-"+mode, func(b *testing.B) {
			if err := scratch.SaveWith(encrypt); err != nil {
				b.Fatalf("(load-%s) - %v", mode, err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := scratch.LoadWith(encrypt); err != nil {
					b.Fatalf("(load-%s) - %v", mode, err)
				}
			}
		})
	}

	// Save results to CSV if path is provided
	if csvPath := viper.GetString("csv"); csvPath != "" {
		if err := writeResultsToCSV(csvPath, results, settings); err != nil {
			return fmt.Errorf("error writing CSV: %w", err)
		}
		fmt.Printf("Results saved to %s\n", csvPath)
	}

	return nil
}

// shouldSkip checks if a test should be skipped
func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if strings.TrimSpace(skip) == test {
			return true
		}
	}
	return false
}

func getKeys(prefix string) (func(int) string, func(func(int, string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(int, string)) {
		for i, key := range keys {
			fn(i, key)
		}
	}

	return getKey, iterateKeys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, settings *persist.Settings) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Serializer", "Cryptographer", "AtomicWrite", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			settings.Serializer.Name(),
			settings.Cryptographer.Name(),
			strconv.FormatBool(settings.AtomicWrite),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}

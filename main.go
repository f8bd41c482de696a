// Command classic runs agents on the classic control environments and
// describes their action and observation spaces.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Environment variables providing flag defaults, possibly from a .env
// file
const (
	seedEnv = "CLASSIC_SEED"
	outEnv  = "CLASSIC_OUT"
)

func main() {
	for _, envFile := range []string{".env", "../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "classic",
		Short:         "Run agents on the Cartpole and Mountain Car environments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCommand(), describeCommand())
	return root
}

// defaultSeed returns the seed set in the environment, or 0
func defaultSeed() uint64 {
	seed, err := strconv.ParseUint(os.Getenv(seedEnv), 10, 64)
	if err != nil {
		return 0
	}
	return seed
}

// defaultOut returns the output directory set in the environment, or
// "results"
func defaultOut() string {
	if out := os.Getenv(outEnv); out != "" {
		return out
	}
	return "results"
}

// Command seeddata writes a synthetic candidate snapshot for local
// development, so the service can be run without the real acquisition
// pipeline.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/jparry/draftmate/internal/seed"
	"github.com/jparry/draftmate/pkg/logger"
)

func main() {
	outDir := flag.String("out", "data", "directory to write snapshot files into")
	candidates := flag.Int("candidates", 100, "number of ranked candidates to generate")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := seed.Generate(context.Background(), seed.Config{
		OutDir:     *outDir,
		Candidates: *candidates,
	}); err != nil {
		logger.Get().Error(context.Background(), "seed failed", logger.Error(err))
		os.Exit(1)
	}
}

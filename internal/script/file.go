package script

import (
	"context"
	"os"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/logging"
)

// ParseFile reads and parses the script at path.
func ParseFile(path string) ([]Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open script")
	}
	defer func() { _ = f.Close() }()

	return Parse(f, path)
}

// RunFile parses the script at path and runs it on engine. Nothing executes
// when the script fails to parse.
func RunFile(ctx context.Context, path string, engine Engine, out Output, logger *logging.Logger) (Summary, error) {
	cmds, err := ParseFile(path)
	if err != nil {
		return Summary{Resolved: []string{}}, err
	}
	return NewRunner(engine, out, logger).Run(ctx, cmds)
}

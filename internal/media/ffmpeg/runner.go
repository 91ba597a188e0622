package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// stderrTailLines bounds how much ffmpeg output is kept for error reporting.
const stderrTailLines = 20

// Runner abstracts ffmpeg execution for testability.
type Runner interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// NewRunner returns the production Runner backed by os/exec.
func NewRunner() Runner {
	return commandRunner{}
}

type commandRunner struct{}

func (commandRunner) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		tail []string
	)

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			mu.Lock()
			tail = append(tail, line)
			if len(tail) > stderrTailLines {
				tail = tail[len(tail)-stderrTailLines:]
			}
			mu.Unlock()
			if onOutput != nil {
				onOutput(line)
			}
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		mu.Lock()
		captured := strings.TrimSpace(strings.Join(tail, "\n"))
		mu.Unlock()
		if captured != "" {
			return fmt.Errorf("%s: %w: %s", binary, err, captured)
		}
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}

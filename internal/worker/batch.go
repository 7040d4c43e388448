package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// BatchProcessor runs jobs one after another, logging each outcome
type BatchProcessor struct {
	logger *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{logger: logger}
}

// Process executes jobs in order. When ctx is canceled the remaining jobs
// are skipped and the results so far are returned with ctx's error.
func (b *BatchProcessor) Process(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, 0, len(jobs))

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		start := time.Now()
		result := job.Execute(ctx)
		results = append(results, result)

		if err := result.GetError(); err != nil {
			b.logger.Warn("job failed", zap.Int("job", i), zap.Error(err))
		} else {
			b.logger.Debug("job done", zap.Int("job", i), zap.Duration("took", time.Since(start)))
		}
	}

	return results, nil
}

// ReadLinesFromFile reads identifiers from a file (one per line), skipping
// blank lines, comments and duplicates
func ReadLinesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return lines, nil
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/acrelle/dataproc/internal/domain"
	"github.com/acrelle/dataproc/internal/task"
)

const (
	demoPassphrase = "dataproc-demo-passphrase"
	asyncBatchSize = 10
	workloadRounds = 10
)

// runDemo drives every subsystem of the toolkit in sequence: JSON
// processing, directory scanning, compression, the operation log, pattern
// matching, encryption and hashing, and finally a batch of asynchronous
// hash tasks followed by a mixed workload.
func runDemo(ctx context.Context, app *application) error {
	log := app.logger.With("component", "demo")
	proc := app.processor

	log.Info("starting demo pipeline")

	if err := demoJSON(ctx, app); err != nil {
		return err
	}
	if err := demoDirectoryScan(ctx, app); err != nil {
		return err
	}
	if err := demoCompression(ctx, app); err != nil {
		return err
	}
	if err := demoStorage(ctx, app); err != nil {
		return err
	}
	if err := demoRegex(ctx, app); err != nil {
		return err
	}
	if err := demoCrypto(ctx, app); err != nil {
		return err
	}
	if err := demoAsync(ctx, app); err != nil {
		return err
	}
	if err := demoMixedWorkload(ctx, app); err != nil {
		return err
	}

	report, err := proc.GenerateReport(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	fmt.Println(string(report))

	total, err := proc.CountOperations(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to count logged operations: %w", err)
	}

	log.Info("demo pipeline finished",
		"logged_operations", total,
		"has_errors", proc.HasErrors())

	return nil
}

func demoJSON(ctx context.Context, app *application) error {
	log := app.logger.With("component", "demo")

	doc := []byte(`{
		"name": "dataproc",
		"version": 1.0,
		"features": ["json", "compression", "encryption", "hashing"]
	}`)

	count, err := app.processor.ProcessJSON(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to process JSON document: %w", err)
	}

	log.Info("processed JSON document", "top_level_elements", count)
	return nil
}

func demoDirectoryScan(ctx context.Context, app *application) error {
	log := app.logger.With("component", "demo")

	files, err := app.processor.ScanDirectory(ctx, ".")
	if err != nil {
		return fmt.Errorf("failed to scan working directory: %w", err)
	}

	log.Info("scanned working directory", "regular_files", files)
	return nil
}

func demoCompression(ctx context.Context, app *application) error {
	log := app.logger.With("component", "demo")

	dir, err := os.MkdirTemp("", "dataproc-demo-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("failed to remove temp directory", "error", err, "dir", dir)
		}
	}()

	content := []byte("This is test data for compression. " + strings.Repeat("A", 1000))
	src := filepath.Join(dir, "input.txt")
	compressed := filepath.Join(dir, "input.txt.gz")
	restored := filepath.Join(dir, "restored.txt")

	if err := os.WriteFile(src, content, 0o600); err != nil {
		return fmt.Errorf("failed to write compression input: %w", err)
	}

	if err := app.processor.CompressFile(ctx, src, compressed); err != nil {
		return fmt.Errorf("failed to compress file: %w", err)
	}
	if err := app.processor.DecompressFile(ctx, compressed, restored); err != nil {
		return fmt.Errorf("failed to decompress file: %w", err)
	}

	restoredContent, err := os.ReadFile(restored)
	if err != nil {
		return fmt.Errorf("failed to read restored file: %w", err)
	}
	if !bytes.Equal(content, restoredContent) {
		return fmt.Errorf("restored file does not match original: %d bytes in, %d bytes out",
			len(content), len(restoredContent))
	}

	info, err := os.Stat(compressed)
	if err != nil {
		return fmt.Errorf("failed to stat compressed file: %w", err)
	}

	log.Info("compression round trip succeeded",
		"original_bytes", len(content),
		"compressed_bytes", info.Size())
	return nil
}

func demoStorage(ctx context.Context, app *application) error {
	log := app.logger.With("component", "demo")

	details := fmt.Sprintf("Processed batch at %s", time.Now().UTC().Format(time.RFC3339))
	if err := app.processor.StoreData(ctx, details); err != nil {
		return fmt.Errorf("failed to store data: %w", err)
	}

	records, err := app.processor.QueryData(ctx, domain.OperationDataStorage, 5, 0)
	if err != nil {
		return fmt.Errorf("failed to query stored records: %w", err)
	}

	log.Info("stored and queried operation records", "recent_storage_records", len(records))
	return nil
}

func demoRegex(ctx context.Context, app *application) error {
	log := app.logger.With("component", "demo")

	const (
		text    = "Contact us at support@example.com or sales@example.com for details."
		pattern = `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`
	)

	matched, err := app.processor.MatchPattern(ctx, text, pattern)
	if err != nil {
		return fmt.Errorf("failed to match pattern: %w", err)
	}

	matches, err := app.processor.ExtractMatches(ctx, text, pattern)
	if err != nil {
		return fmt.Errorf("failed to extract matches: %w", err)
	}

	log.Info("pattern matching finished",
		"matched", matched,
		"addresses_found", len(matches))
	return nil
}

func demoCrypto(ctx context.Context, app *application) error {
	log := app.logger.With("component", "demo")

	secret := []byte("Sensitive information that must not be stored in the clear.")

	ciphertext, err := app.processor.EncryptData(ctx, secret, demoPassphrase)
	if err != nil {
		return fmt.Errorf("failed to encrypt data: %w", err)
	}

	plaintext, err := app.processor.DecryptData(ctx, ciphertext, demoPassphrase)
	if err != nil {
		return fmt.Errorf("failed to decrypt data: %w", err)
	}
	if !bytes.Equal(secret, plaintext) {
		return fmt.Errorf("decrypted data does not match original: %d bytes in, %d bytes out",
			len(secret), len(plaintext))
	}

	digest, err := app.processor.GenerateHash(ctx, secret)
	if err != nil {
		return fmt.Errorf("failed to hash data: %w", err)
	}

	log.Info("encryption round trip succeeded",
		"ciphertext_bytes", len(ciphertext),
		"digest_prefix", digest[:16])
	return nil
}

func demoAsync(ctx context.Context, app *application) error {
	log := app.logger.With("component", "demo")

	var completed, failed atomic.Int64

	for i := 0; i < asyncBatchSize; i++ {
		payload := []byte(fmt.Sprintf("async-payload-%d", i))
		err := app.processor.ProcessDataAsync(ctx, payload, func(result task.Result) {
			if result.Err != nil {
				failed.Add(1)
				log.Error("async task failed", "error", result.Err, "task_id", result.TaskID)
				return
			}
			completed.Add(1)
			log.Debug("async task completed",
				"task_id", result.TaskID,
				"digest_prefix", string(result.Output[:16]))
		})
		if err != nil {
			return fmt.Errorf("failed to submit async task %d: %w", i, err)
		}
	}

	app.processor.WaitForCompletion()

	log.Info("async batch finished",
		"submitted", asyncBatchSize,
		"completed", completed.Load(),
		"failed", failed.Load())

	if got := completed.Load() + failed.Load(); got != asyncBatchSize {
		return fmt.Errorf("async batch lost results: submitted %d, saw %d callbacks",
			asyncBatchSize, got)
	}

	return nil
}

// demoMixedWorkload interleaves synchronous operations the way a busy caller
// would, timing each round.
func demoMixedWorkload(ctx context.Context, app *application) error {
	log := app.logger.With("component", "demo")

	for i := 0; i < workloadRounds; i++ {
		start := time.Now()

		doc := []byte(fmt.Sprintf(`{"iteration": %d, "data": "item_%d"}`, i, i))
		if _, err := app.processor.ProcessJSON(ctx, doc); err != nil {
			return fmt.Errorf("workload round %d: failed to process JSON: %w", i, err)
		}

		if _, err := app.processor.GenerateHash(ctx, []byte(fmt.Sprintf("data_%d", i))); err != nil {
			return fmt.Errorf("workload round %d: failed to hash data: %w", i, err)
		}

		matched, err := app.processor.MatchPattern(ctx, fmt.Sprintf("iteration_%d", i), `\d+`)
		if err != nil {
			return fmt.Errorf("workload round %d: failed to match pattern: %w", i, err)
		}
		if !matched {
			return fmt.Errorf("workload round %d: expected digit pattern to match", i)
		}

		log.Debug("workload round finished",
			"round", i,
			"duration_ms", time.Since(start).Milliseconds())
	}

	log.Info("mixed workload finished", "rounds", workloadRounds)
	return nil
}

package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"jsadvpl/pkg/batch"
	"jsadvpl/pkg/errors"
	"jsadvpl/pkg/source"
)

var scriptExtensions = map[string]bool{
	".js":  true,
	".mjs": true,
	".cjs": true,
}

type batchResult struct {
	Written []string
	Failed  []string
	Skipped []string
}

// runDir transpiles every script under dir. Outputs go next to their
// inputs, or mirror the tree under outDir when it is set.
func (a *app) runDir(dir, outDir string) int {
	res, err := a.transpileDir(dir, outDir)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitSoftware
	}
	fmt.Fprintf(a.stdout, "%d written, %d failed, %d skipped\n", len(res.Written), len(res.Failed), len(res.Skipped))
	if len(res.Failed) > 0 {
		return exitDataErr
	}
	return exitOK
}

func (a *app) transpileDir(dir, outDir string) (res batchResult, err error) {
	var jobs []*batch.Job
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != dir && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !scriptExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !isText(content) {
			a.logger.Warn("skip non-text file", "path", path)
			res.Skipped = append(res.Skipped, path)
			return nil
		}

		text, err := source.Decode(content)
		if err != nil {
			return err
		}
		target, err := batchOutputPath(dir, outDir, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, &batch.Job{
			Source: source.FromFile(path, text),
			Target: target,
		})
		return nil
	})
	if err != nil {
		return
	}

	pool := batch.NewWorkerPool(0, a.options())
	if err = pool.Start(context.Background()); err != nil {
		return
	}

	// results are written from a single goroutine so diagnostics don't interleave
	done := make(chan error, 1)
	go func() {
		var writeErr error
		for result := range pool.Results() {
			if err := a.collect(&res, result); err != nil && writeErr == nil {
				writeErr = err
			}
		}
		done <- writeErr
	}()

	for _, job := range jobs {
		if err = pool.Submit(job); err != nil {
			break
		}
	}
	if shutdownErr := pool.Shutdown(context.Background()); err == nil {
		err = shutdownErr
	}
	if writeErr := <-done; err == nil {
		err = writeErr
	}

	stats := pool.GetStats()
	a.logger.Debug("batch done",
		"jobs", stats.TotalJobs,
		"failed", stats.FailedJobs,
		"workers", stats.WorkerCount,
		"average", stats.AverageTime,
	)
	sort.Strings(res.Written)
	sort.Strings(res.Failed)
	return
}

func (a *app) collect(res *batchResult, result *batch.Result) error {
	sf := result.Job.Source
	if result.Error != nil {
		fmt.Fprintf(a.stderr, "%s:\n", sf.DisplayPath())
		errors.Display(a.stderr, sf.Content, result.Error)
		res.Failed = append(res.Failed, sf.Path)
		return nil
	}

	target := result.Job.Target
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := source.WriteFile(target, result.Output, a.encoding); err != nil {
		return err
	}
	a.logger.Info("wrote", "input", sf.Path, "output", target, "worker", result.WorkerID, "took", result.Duration)
	res.Written = append(res.Written, target)
	return nil
}

func isText(content []byte) bool {
	for t := mimetype.Detect(content); t != nil; t = t.Parent() {
		if t.Is("text/plain") {
			return true
		}
	}
	return false
}

func batchOutputPath(dir, outDir, path string) (string, error) {
	if outDir == "" {
		return source.OutputPath(path), nil
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return "", err
	}
	return source.OutputPath(filepath.Join(outDir, rel)), nil
}

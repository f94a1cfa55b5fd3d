package uploader

//go:generate mockgen -destination mocks/mocks.go -package mocks github.com/redpwn/powupload/internal/uploader ChallengeSource,UploadSink,Solver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-units"

	"github.com/redpwn/powupload/internal/config"
	"github.com/redpwn/powupload/internal/fault"
	"github.com/redpwn/powupload/pow"
)

type ChallengeSource interface {
	FetchChallenge(ctx context.Context) (*pow.Challenge, error)
}

type UploadSink interface {
	Upload(ctx context.Context, path, taskID, suffix string) (string, error)
}

type Solver interface {
	Solve(ctx context.Context, prefix []byte, bits uint32) (*pow.Solution, error)
}

type Uploader struct {
	source       ChallengeSource
	sink         UploadSink
	solver       Solver
	maxFileSize  int64
	solveTimeout time.Duration
}

func New(source ChallengeSource, sink UploadSink, solver Solver, cfg *config.Config) *Uploader {
	return &Uploader{
		source:       source,
		sink:         sink,
		solver:       solver,
		maxFileSize:  cfg.MaxFileBytes(),
		solveTimeout: cfg.SolveTimeout,
	}
}

func (u *Uploader) checkFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fault.ErrFileNotFound
	}
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fault.ErrFileNotFound
	}
	if u.maxFileSize > 0 && info.Size() > u.maxFileSize {
		return fmt.Errorf("%s > %s: %w", units.HumanSize(float64(info.Size())), units.HumanSize(float64(u.maxFileSize)), fault.ErrFileTooLarge)
	}
	// the upload reads it only after a challenge is solved
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%v: %w", err, fault.ErrFileNotFound)
	}
	return f.Close()
}

// ProcessFile runs challenge, solve and upload for one file and returns its URL.
func (u *Uploader) ProcessFile(ctx context.Context, path string) (string, error) {
	if err := u.checkFile(path); err != nil {
		return "", err
	}
	chall, err := u.source.FetchChallenge(ctx)
	if err != nil {
		return "", err
	}
	log.Printf("file %s: difficulty %d bits, ip %s", path, chall.Difficulty, chall.IP)

	solveCtx := ctx
	if u.solveTimeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, u.solveTimeout)
		defer cancel()
	}
	sol, err := u.solver.Solve(solveCtx, chall.Prefix, chall.Difficulty)
	if err != nil {
		return "", fmt.Errorf("solve: %w", err)
	}
	log.Printf("file %s: solved by worker %d after %d attempts in %s", path, sol.Worker, sol.Attempts, sol.Elapsed)

	log.Printf("file %s: uploading", path)
	url, err := u.sink.Upload(ctx, path, chall.TaskID, sol.Hex())
	if err != nil {
		return "", err
	}
	return url, nil
}

type Result struct {
	Path string
	URL  string
	Err  error
}

type Report struct {
	Results []Result
}

func (r *Report) Total() int {
	return len(r.Results)
}

func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

func (r *Report) URLs() []string {
	var urls []string
	for _, res := range r.Results {
		if res.Err == nil {
			urls = append(urls, res.URL)
		}
	}
	return urls
}

// Run processes every path in order. A failed file is logged and recorded; it
// never stops the remaining files unless ctx itself is done.
func (u *Uploader) Run(ctx context.Context, paths []string) *Report {
	report := &Report{Results: make([]Result, 0, len(paths))}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			report.Results = append(report.Results, Result{Path: p, Err: err})
			continue
		}
		log.Printf("file %s: processing", p)
		url, err := u.ProcessFile(ctx, p)
		if err != nil {
			log.Printf("file %s: %s", p, err)
		}
		report.Results = append(report.Results, Result{Path: p, URL: url, Err: err})
	}
	return report
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/urfave/cli"

	"github.com/redpwn/powupload/internal/client"
	"github.com/redpwn/powupload/internal/config"
	"github.com/redpwn/powupload/internal/uploader"
	"github.com/redpwn/powupload/pow"
)

var errSomeFailed = errors.New("some files were not uploaded")

func newSolver(cfg *config.Config) *pow.Solver {
	s := pow.NewSolver()
	s.Workers = cfg.Workers
	s.SuffixSize = cfg.SuffixSize
	s.ProgressInterval = cfg.ProgressInterval
	s.Progress = func(worker int, attempts uint64) {
		log.Printf("worker %d: %d attempts", worker, attempts)
	}
	return s
}

func upload(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("usage: powupload <endpoint> <imagePath>...")
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	solver := newSolver(cfg)
	log.Printf("solving with %d workers", solver.WorkerCount())
	cl := client.New(c.Args().First(), cfg)
	report := uploader.New(cl, cl, solver, cfg).Run(ctx, c.Args().Tail())

	fmt.Printf("\nUpload complete: %d/%d files successfully uploaded\n", report.Succeeded(), report.Total())
	if urls := report.URLs(); len(urls) > 0 {
		fmt.Println("Upload links:")
		for _, u := range urls {
			fmt.Println(u)
		}
	}
	if report.Succeeded() != report.Total() {
		return errSomeFailed
	}
	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "powupload"
	app.Usage = "solve the upload proof of work and upload images"
	app.ArgsUsage = "<endpoint> <imagePath>..."
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "workers, w",
			Usage: "maximum number of solver workers (default $UPLOAD_WORKERS)",
		},
	}
	app.Action = upload
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

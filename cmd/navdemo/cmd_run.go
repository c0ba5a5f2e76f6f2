package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/comalice/scenenav"
	"github.com/comalice/scenenav/mainloop"
	"github.com/comalice/scenenav/production"
)

const sessionID = "session"

var errExit = errors.New("back press not handled")

type runOptions struct {
	resume bool
	save   bool
	dot    bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run [step...]",
		Short: "Run navigation steps: open:<id>, compose:<to>, back, finish",
		Example: `  navdemo run open:42 compose:ada back back --save
  navdemo run --resume back`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd.OutOrStdout(), opts, args)
		},
	}
	cmd.Flags().BoolVar(&opts.resume, "resume", false, "restore the saved session before running")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the session after running")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "print the navigator tree as Graphviz DOT")
	return cmd
}

func run(ctx context.Context, out io.Writer, opts runOptions, steps []string) error {
	codec, err := cfg.codec()
	if err != nil {
		return err
	}
	persister, err := production.NewFilePersister(cfg.Dir, codec)
	if err != nil {
		return err
	}

	var saved *scenenav.SavedState
	if opts.resume {
		saved, err = persister.Load(ctx, sessionID)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Info("no saved session, starting fresh")
		case err != nil:
			return err
		}
	}

	loop := mainloop.New(mainloop.Config{Logger: logger})
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()
	defer func() {
		loop.Stop()
		<-loopDone
	}()

	reg := prometheus.NewRegistry()
	metrics := production.NewMetrics(reg)
	events := make(chan production.PublishedEvent, 64)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		_ = production.Drain(context.Background(), events, func(e production.PublishedEvent) {
			printEvent(out, e)
		})
	}()

	var (
		a    *app
		pub  *production.ChannelPublisher
		subs []scenenav.Disposable
	)
	err = loop.Do(ctx, func() {
		a = newApp(logger, saved)
		var sub scenenav.Disposable
		pub, sub = production.Publish(a.root, events)
		subs = append(subs, sub, metrics.Observe(a.root, "app"))
		a.root.Start()
	})
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	stepErr := runSteps(ctx, loop, a, steps)

	var state *scenenav.SavedState
	var dot string
	err = loop.Do(ctx, func() {
		if opts.save {
			state = a.root.SaveInstanceState()
		}
		if opts.dot {
			dot = production.ExportDOT(a.root)
		}
		a.root.Destroy()
		for _, s := range subs {
			s.Dispose()
		}
	})
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	_ = pub.Close()
	<-printed

	if dropped := pub.Dropped(); dropped > 0 {
		logger.Warn("events dropped", "count", dropped)
	}
	if dot != "" {
		fmt.Fprint(out, dot)
	}
	if state != nil {
		if err := persister.Save(ctx, sessionID, state); err != nil {
			return err
		}
		logger.Info("session saved", "path", persister.Path(sessionID))
	}
	if n, err := countTransitions(reg); err == nil {
		fmt.Fprintf(out, "transitions: %d\n", n)
	}

	if errors.Is(stepErr, errExit) {
		fmt.Fprintln(out, "exit")
		return nil
	}
	return stepErr
}

func runSteps(ctx context.Context, loop *mainloop.Loop, a *app, steps []string) error {
	for _, step := range steps {
		var stepErr error
		err := loop.Do(ctx, func() { stepErr = apply(a, step) })
		if err != nil {
			return fmt.Errorf("step %q: %w", step, err)
		}
		if stepErr != nil {
			return stepErr
		}
	}
	return nil
}

func apply(a *app, step string) error {
	name, arg, _ := strings.Cut(step, ":")
	switch name {
	case "open":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("step %q: bad message id: %w", step, err)
		}
		return a.open(id)
	case "compose":
		a.compose(arg)
	case "back":
		if !a.back() {
			return errExit
		}
	case "finish":
		a.root.Finish()
	default:
		return fmt.Errorf("unknown step %q", step)
	}
	return nil
}

func printEvent(w io.Writer, e production.PublishedEvent) {
	switch e.Type {
	case production.EventSceneChanged:
		arrow := "->"
		if e.Backwards {
			arrow = "<-"
		}
		fmt.Fprintf(w, "%s %s\n", arrow, describe(e.Scene))
	case production.EventFinished:
		fmt.Fprintln(w, "finished")
	}
}

func countTransitions(g prometheus.Gatherer) (int, error) {
	families, err := g.Gather()
	if err != nil {
		return 0, err
	}
	var n float64
	for _, f := range families {
		if f.GetName() != "scenenav_scene_changes_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			n += m.GetCounter().GetValue()
		}
	}
	return int(n), nil
}

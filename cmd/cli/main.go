package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/hamed0406/healthlogger/internal/config"
	"github.com/hamed0406/healthlogger/internal/logging"
	"github.com/hamed0406/healthlogger/internal/probe"
	"github.com/hamed0406/healthlogger/internal/render"
)

const clearScreen = "\033[H\033[2J"

func main() {
	once := flag.Bool("once", false, "probe once, print the result and exit")
	flag.Parse()

	cfg := config.FromEnv()
	logger, err := logging.New("probe", cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}
	r := render.Renderer{Location: loc}

	backend := probe.NewHTTPBackend(cfg.APIBase, cfg.HTTPTimeout)
	backend.APIKey = cfg.APIKey

	var opts []probe.Option
	if cfg.DiagnoseDNS {
		opts = append(opts, probe.WithDiagnoser(probe.NewDNSDiagnoser(cfg.APIBase)))
	}
	c := probe.NewController(backend, logger, opts...)
	logger.Info("probe_start", zap.String("api_base", cfg.APIBase), zap.Duration("timeout", cfg.HTTPTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		_ = c.RunProbe(ctx)
		if err := r.Render(os.Stdout, c.State()); err != nil {
			log.Fatal(err)
		}
		if c.State().Error != "" {
			os.Exit(1)
		}
		return
	}

	states, unsubscribe := c.Subscribe()
	drawn := make(chan struct{})
	go func() {
		defer close(drawn)
		for s := range states {
			fmt.Print(clearScreen)
			_ = r.Render(os.Stdout, s)
			fmt.Println("\n[q] Quit")
		}
	}()

	go func() { _ = c.RunProbe(ctx) }()

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "q", "quit", "exit":
				break loop
			case "":
				// the trigger is disabled while a cycle runs
				if c.State().InFlight {
					continue
				}
				go func() { _ = c.RunProbe(ctx) }()
			}
		}
	}

	unsubscribe()
	<-drawn
	logger.Info("probe_exit")
}

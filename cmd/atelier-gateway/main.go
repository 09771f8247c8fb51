package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/five82/atelier/internal/fakegateway"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:3000", "listen address")
	seedPath := flag.String("seed", "", "JSON seed file (optional, defaults to a built-in catalogue)")
	debug := flag.Bool("debug", false, "gin debug mode")
	flag.Parse()

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}

	seed := fakegateway.DefaultSeed()
	if *seedPath != "" {
		loaded, err := fakegateway.LoadSeed(*seedPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "atelier-gateway: %v\n", err)
			return 1
		}
		seed = loaded
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           fakegateway.NewRouter(fakegateway.NewStore(seed)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("gateway: listening on %s with %d collections", *addr, len(seed.Collections))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "atelier-gateway: %v\n", err)
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "atelier-gateway: shutdown: %v\n", err)
			return 1
		}
	}
	return 0
}

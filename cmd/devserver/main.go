// Command devserver serves the in-memory MenuUp backend for local use of the
// client. It seeds a demo account and a few public recipes.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/menuup/internal/common"
	"github.com/dmitrijs2005/menuup/internal/devbackend"
	"github.com/dmitrijs2005/menuup/internal/logging"
)

func main() {

	addr := flag.String("addr", envOr("MENUUP_DEV_ADDR", "localhost:3000"), "listen address")
	secret := flag.String("secret", os.Getenv("MENUUP_DEV_SECRET"), "JWT signing secret (random when empty)")
	level := flag.String("l", "info", "log level")
	flag.Parse()

	log := logging.New(os.Stderr, *level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *secret == "" {
		generated, err := common.MakeRandHexString(32)
		if err != nil {
			log.Error(ctx, "cannot generate signing secret", "error", err)
			os.Exit(1)
		}
		*secret = generated
	}

	b := devbackend.New([]byte(*secret))
	devbackend.Seed(b)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           b.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "dev backend listening", "addr", *addr, "demo_email", devbackend.DemoEmail, "demo_password", devbackend.DemoPassword)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(ctx, "dev backend stopped", "error", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

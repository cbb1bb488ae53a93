// Command parlor serves the multi-party AI group chat API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"github.com/parlorhq/parlor/character"
	"github.com/parlorhq/parlor/completion"
	"github.com/parlorhq/parlor/config"
	"github.com/parlorhq/parlor/logging"
	"github.com/parlorhq/parlor/room"
	"github.com/parlorhq/parlor/server"
	"github.com/parlorhq/parlor/transcript"
	"github.com/parlorhq/parlor/turn"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "error", "text").Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	db, err := badger.Open(badger.DefaultOptions(cfg.BadgerPath).WithLogger(nil))
	if err != nil {
		log.Error("open badger", "path", cfg.BadgerPath, "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	chars := character.NewBadgerStore(db)
	registry := character.NewRegistry(chars)
	rooms := room.NewBadgerStore(db)
	hub := room.NewHub(rooms, registry)

	builder := transcript.NewBuilder(func(o *transcript.Options) {
		o.Window = cfg.HistoryWindow
		o.ReplyBudget = cfg.ReplyBudget
	})
	orch := turn.NewOrchestrator(registry, completion.NewRouter(), builder, func(o *turn.Options) {
		o.Pacing = cfg.TurnPacing
		o.StreamTimeout = cfg.StreamTimeout
		o.Logger = log
	})

	srv := server.New(registry, chars, rooms, hub, orch, log)

	go func() {
		log.Info("listening", "addr", cfg.ListenAddr)
		if err := srv.Start(cfg.ListenAddr); err != nil {
			log.Error("server stopped", "error", err.Error())
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown", "error", err.Error())
	}
}

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	agent "roombot/agent"
	"roombot/agent/internal/telemetry"
	"roombot/agent/logging"
	loggingSinks "roombot/agent/logging/sinks"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		mode       = flag.String("mode", "", "policy mode: rules, random or script")
		statePath  = flag.String("state", "", "path to the game state file")
		actionPath = flag.String("action", "", "path to the action file")
		scriptPath = flag.String("script", "", "path to a Tengo policy script (script mode)")
		wsURL      = flag.String("ws", "", "websocket snapshot stream URL (overrides -state)")
		watch      = flag.Bool("watch", false, "refresh the state file via fsnotify instead of polling")
		record     = flag.Bool("record", false, "record (state, action) episodes to JSONL")
		verbose    = flag.Bool("verbose", false, "log debug-severity events")
		logActions = flag.Bool("log-actions", false, "log every decision")
	)
	flag.Parse()

	cfg, err := agent.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *statePath != "" {
		cfg.StatePath = *statePath
	}
	if *actionPath != "" {
		cfg.ActionPath = *actionPath
	}
	if *scriptPath != "" {
		cfg.ScriptPath = *scriptPath
	}
	if *wsURL != "" {
		cfg.WSURL = *wsURL
	}
	if *watch {
		cfg.Watch = true
	}
	if *record {
		cfg.Record = true
	}
	if *logActions {
		cfg.LogActions = true
	}
	if *verbose {
		cfg.Logging.MinimumSeverity = logging.SeverityDebug
	}

	router := logging.NewRouter(nil, cfg.Logging, buildSinks(cfg.Logging))
	metrics := logging.NewMetrics()

	a, err := agent.New(cfg, agent.Options{
		Publisher: router,
		Metrics:   telemetry.WrapMetrics(metrics),
		Logger:    telemetry.WrapLogger(log.Default()),
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("agent starting mode=%s state=%s action=%s", cfg.Mode, sourceLabel(cfg), cfg.ActionPath)
	if err := a.Run(ctx); err != nil {
		log.Printf("agent stopped: %v", err)
	}

	if err := router.Close(context.Background()); err != nil {
		log.Printf("close logging router: %v", err)
	}
}

func buildSinks(cfg logging.Config) []logging.NamedSink {
	var sinks []logging.NamedSink
	if cfg.HasSink("console") {
		sinks = append(sinks, logging.NamedSink{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout)})
	}
	if cfg.HasSink("json") && cfg.JSON.FilePath != "" {
		file, err := os.OpenFile(cfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Printf("json sink unavailable: %v", err)
		} else {
			sinks = append(sinks, logging.NamedSink{Name: "json", Sink: loggingSinks.NewJSON(file, cfg.JSON.FlushInterval)})
		}
	}
	return sinks
}

func sourceLabel(cfg agent.Config) string {
	if cfg.WSURL != "" {
		return cfg.WSURL
	}
	return cfg.StatePath
}

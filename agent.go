// Package agent runs the external decision loop: ingest a snapshot of game
// state, run a policy over it, and hand the resulting action back to the
// game.
package agent

import (
	"context"
	"fmt"
	"time"

	"roombot/agent/internal/action"
	"roombot/agent/internal/episode"
	"roombot/agent/internal/policy"
	"roombot/agent/internal/state"
	"roombot/agent/internal/telemetry"
	"roombot/agent/logging"
)

// noStateNoticeEvery throttles the "waiting for game state" notice while the
// game has not produced a snapshot yet.
const noStateNoticeEvery = 100

// Options lets callers (mainly tests) substitute collaborators the agent
// would otherwise construct from its Config.
type Options struct {
	Source    state.Source
	Writer    *action.Writer
	Policy    policy.Policy
	Recorder  *episode.Recorder
	Publisher logging.Publisher
	Metrics   telemetry.Metrics
	Logger    telemetry.Logger
}

// Agent paces the decision loop and owns the lifecycle of its transports.
type Agent struct {
	cfg       Config
	source    state.Source
	writer    *action.Writer
	policy    policy.Policy
	recorder  *episode.Recorder
	publisher logging.Publisher
	metrics   telemetry.Metrics
	logger    telemetry.Logger
}

// New wires an agent from cfg, constructing any collaborator not supplied in
// opts. Source selection: websocket stream when ws_url is set, otherwise the
// state file, with an fsnotify watcher layered on when watch is enabled.
func New(cfg Config, opts Options) (*Agent, error) {
	cfg = cfg.normalized()

	a := &Agent{
		cfg:       cfg,
		source:    opts.Source,
		writer:    opts.Writer,
		policy:    opts.Policy,
		recorder:  opts.Recorder,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}
	if a.publisher == nil {
		a.publisher = logging.NopPublisher()
	}
	if a.metrics == nil {
		a.metrics = telemetry.NopMetrics()
	}
	if a.logger == nil {
		a.logger = telemetry.NopLogger()
	}

	if a.policy == nil {
		pol, err := buildPolicy(cfg, a.logger)
		if err != nil {
			return nil, err
		}
		a.policy = pol
	}

	if a.source == nil {
		source, err := buildSource(cfg, a.logger)
		if err != nil {
			return nil, err
		}
		a.source = source
	}

	if a.writer == nil {
		a.writer = action.NewWriter(cfg.ActionPath)
	}

	if a.recorder == nil && cfg.Record {
		recorder, err := episode.NewRecorder(cfg.RecordDir)
		if err != nil {
			return nil, err
		}
		a.recorder = recorder
	}

	return a, nil
}

func buildPolicy(cfg Config, logger telemetry.Logger) (policy.Policy, error) {
	switch cfg.Mode {
	case ModeRules:
		return policy.NewRules(cfg.Engine), nil
	case ModeRandom:
		return policy.NewRandom(0), nil
	case ModeScript:
		if cfg.ScriptPath == "" {
			return nil, fmt.Errorf("script mode requires a script path")
		}
		return policy.NewScript(cfg.ScriptPath, logger)
	case "train", "inference":
		return nil, fmt.Errorf("mode %q is not implemented", cfg.Mode)
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

func buildSource(cfg Config, logger telemetry.Logger) (state.Source, error) {
	if cfg.WSURL != "" {
		return state.DialSnapshots(cfg.WSURL, logger), nil
	}
	reader := state.NewFileReader(cfg.StatePath, cfg.StaleAfter)
	if cfg.Watch {
		watcher, err := state.NewWatcher(reader, cfg.StatePath)
		if err != nil {
			logger.Printf("state watch unavailable, polling instead: %v", err)
			return reader, nil
		}
		return watcher, nil
	}
	return reader, nil
}

// Policy returns the active policy.
func (a *Agent) Policy() policy.Policy {
	return a.policy
}

// Run drives the loop until ctx is cancelled. On the way out it clears the
// action file so the game stops moving, then closes the recorder and source.
func (a *Agent) Run(ctx context.Context) error {
	defer a.shutdown(ctx)

	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	var (
		lastFrame  uint64
		hasFrame   bool
		noState    uint64
		loops      int
		lastStatus = time.Now()
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		loops++

		snap := a.source.Latest()
		if snap == nil {
			noState++
			if noState%noStateNoticeEvery == 1 {
				a.publisher.Publish(ctx, logging.Event{
					Type:     logging.EventStateStale,
					Severity: logging.SeverityWarn,
					Payload:  map[string]any{"waiting_loops": noState},
				})
			}
			continue
		}
		if noState > 0 {
			a.publisher.Publish(ctx, logging.Event{
				Type:     logging.EventStateRead,
				Frame:    snap.Frame,
				Severity: logging.SeverityInfo,
				Payload:  map[string]any{"restored_after_loops": noState},
			})
			noState = 0
		}

		// Same frame as last tick: nothing new to decide on.
		if hasFrame && snap.Frame == lastFrame {
			continue
		}
		lastFrame = snap.Frame
		hasFrame = true

		act := a.policy.Decide(snap)
		a.metrics.Add("decisions", 1)

		if err := a.writer.Write(act); err != nil {
			a.metrics.Add("write_errors", 1)
			a.publisher.Publish(ctx, logging.Event{
				Type:     logging.EventActionWrite,
				Frame:    snap.Frame,
				Severity: logging.SeverityWarn,
				Payload:  map[string]any{"error": err.Error()},
			})
		} else if a.cfg.LogActions {
			a.publisher.Publish(ctx, logging.Event{
				Type:     logging.EventDecision,
				Frame:    snap.Frame,
				Severity: logging.SeverityDebug,
				Payload:  act,
			})
		}

		if a.recorder != nil {
			if err := a.recorder.Record(snap, act); err != nil {
				a.metrics.Add("record_errors", 1)
				a.publisher.Publish(ctx, logging.Event{
					Type:     logging.EventEpisode,
					Frame:    snap.Frame,
					Severity: logging.SeverityWarn,
					Payload:  map[string]any{"error": err.Error()},
				})
			}
		}

		if since := time.Since(lastStatus); since >= a.cfg.StatusInterval {
			a.publishStatus(ctx, snap, loops, since)
			loops = 0
			lastStatus = time.Now()
		}
	}
}

func (a *Agent) publishStatus(ctx context.Context, snap *state.Snapshot, loops int, elapsed time.Duration) {
	payload := map[string]any{
		"policy":      a.policy.Name(),
		"enemies":     len(snap.Enemies),
		"projectiles": len(snap.Projectiles),
		"loop_hz":     float64(loops) / elapsed.Seconds(),
	}
	if snap.Player != nil {
		payload["hp"] = snap.Player.HP
		payload["max_hp"] = snap.Player.MaxHP
	}
	if st, ok := a.source.(interface{ Stats() state.ReaderStats }); ok {
		stats := st.Stats()
		payload["reads"] = stats.Reads
		payload["read_errors"] = stats.Errors
		a.metrics.Store("reads", stats.Reads)
		a.metrics.Store("read_errors", stats.Errors)
	}
	writes, errs := a.writer.Stats()
	payload["writes"] = writes
	payload["write_errors"] = errs

	a.publisher.Publish(ctx, logging.Event{
		Type:     logging.EventAgentStatus,
		Frame:    snap.Frame,
		Severity: logging.SeverityInfo,
		Payload:  payload,
	})
}

func (a *Agent) shutdown(ctx context.Context) {
	if err := a.writer.Clear(); err != nil {
		a.logger.Printf("clear action on shutdown: %v", err)
	}
	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			a.logger.Printf("close episode: %v", err)
		} else {
			a.publisher.Publish(ctx, logging.Event{
				Type:     logging.EventEpisode,
				Severity: logging.SeverityInfo,
				Payload: map[string]any{
					"id":      a.recorder.ID(),
					"records": a.recorder.Records(),
				},
			})
		}
	}
	if err := a.source.Close(); err != nil {
		a.logger.Printf("close snapshot source: %v", err)
	}
}

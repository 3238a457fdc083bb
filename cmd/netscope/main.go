package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"netscope/internal/codec"
	"netscope/internal/collector"
	"netscope/internal/config"
	"netscope/internal/domain"
	"netscope/internal/repository"
	"netscope/internal/repository/sqlite"
	"netscope/internal/runner"
	"netscope/internal/service"
)

var version = "dev"

func main() {
	opt, err := Parse(os.Args[1:])
	if err != nil {
		if IsHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if opt.Version {
		fmt.Println("netscope", version)
		return
	}
	if opt.InitConfig {
		path, err := initConfig(opt.Config)
		if err != nil {
			fmt.Fprintln(os.Stderr, "netscope:", err)
			os.Exit(1)
		}
		fmt.Println("wrote", path)
		return
	}

	if err := run(opt); err != nil {
		fmt.Fprintln(os.Stderr, "netscope:", err)
		os.Exit(1)
	}
}

func run(opt *Option) error {
	cfg, cfgPath, err := loadConfig(opt.Config)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log, opt.LogLevel, opt.Debug, os.Stderr)
	if cfgPath != "" {
		logger.Debug().Str("path", cfgPath).Msg("config loaded")
	} else {
		logger.Debug().Msg("no config file found, using defaults")
	}

	exporter, err := codec.ForFormat(opt.Output)
	if err != nil {
		return err
	}

	if opt.Input != "" {
		return renderSaved(opt, exporter)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := wire(ctx, cfg, opt, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.query(ctx, opt, exporter)
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// initConfig writes the default config to path, or to the per-user location
// when path is empty. An existing file is never overwritten.
func initConfig(path string) (string, error) {
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config %s already exists", path)
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return path, err
	}
	return path, nil
}

// renderSaved re-renders an exported snapshot, picking the importer from the extension
func renderSaved(opt *Option, exporter codec.Exporter) error {
	f, err := os.Open(opt.Input)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	format := "json"
	if ext := fileExt(opt.Input); ext == "yaml" || ext == "yml" {
		format = "yaml"
	}
	importer, err := codec.ImporterFor(format)
	if err != nil {
		return err
	}
	snap, err := importer.Parse(f)
	if err != nil {
		return err
	}
	return exportSnapshot(snap, opt, exporter)
}

func fileExt(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// app holds the wired components for one invocation
type app struct {
	inventory *service.Inventory
	diag      repository.DiagnosticLog
	closers   []func() error
	logger    zerolog.Logger
}

func wire(ctx context.Context, cfg *config.Config, opt *Option, logger zerolog.Logger) (*app, error) {
	a := &app{logger: logger}

	host := config.DetectHost()
	profile := cfg.ResolveProfile(host)
	if opt.NoBridge {
		profile.Bridge = config.None
		profile.Bridged = ""
	}
	logger.Info().
		Str("native", string(profile.Native)).
		Str("bridged", string(profile.Bridged)).
		Str("bridge", profile.Bridge).
		Bool("wsl", host.WSL).
		Strs("evidence", host.Reasons).
		Msg("platform profile resolved")
	if host.GOOS == "linux" && !host.Privileged {
		logger.Debug().Msg("not running as root, some port owners may stay unresolved")
	}

	native := runner.NewExecRunner(logger)
	var bridged runner.Runner
	switch runner.ParseBridgeKind(profile.Bridge) {
	case runner.BridgeWSL:
		bridged = runner.NewWSLBridge(native, profile.Distro)
	case runner.BridgeInterop:
		bridged = runner.NewInteropBridge(native)
	case runner.BridgeSSH:
		b := runner.NewSSHBridge(runner.SSHConfig{
			Host:        cfg.SSH.Host,
			Port:        cfg.SSH.Port,
			User:        cfg.SSH.User,
			KeyPath:     cfg.SSH.KeyPath,
			Passphrase:  cfg.SSH.Passphrase,
			Password:    cfg.SSH.Password,
			DialTimeout: cfg.SSH.ConnectTimeout.Or(10 * time.Second),
		}, logger)
		a.closers = append(a.closers, b.Close)
		bridged = b
	}
	router := runner.NewRouter(native, bridged)

	profiles := []collector.Profile{{Env: domain.EnvNative, Platform: profile.Native}}
	if router.HasBridge() && profile.HasBridged() {
		profiles = append(profiles, collector.Profile{Env: domain.EnvBridged, Platform: profile.Bridged})
	}

	var diag collector.Diagnostics
	if cfg.Diagnostics.Enabled {
		repo, err := sqlite.New(cfg.Diagnostics.Path, logger)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.Diagnostics.Path).Msg("diagnostic log unavailable")
		} else {
			a.diag = repo
			a.closers = append(a.closers, repo.Close)
			diag = repo
		}
	}

	opts := collector.Options{
		Timeouts: collector.Timeouts{
			Default:    cfg.Timeouts.Default.Or(10 * time.Second),
			PowerShell: cfg.Timeouts.PowerShell.Or(30 * time.Second),
			Docker:     cfg.Timeouts.Docker.Or(15 * time.Second),
			Enrich:     cfg.Timeouts.Enrich.Or(5 * time.Second),
		},
		MaxEnrich: cfg.Ports.MaxEnrich,
		Docker:    collector.ParseDockerTransport(cfg.Docker.Transport),
		DockerEnv: cfg.DockerEnv(),
		Disabled:  cfg.DisabledKinds(),
	}
	if opt.Docker != "" {
		opts.Docker = collector.ParseDockerTransport(opt.Docker)
	}
	if opts.Docker == collector.DockerAPI {
		engine, err := collector.NewEngineClient(cfg.Docker.Host)
		if err != nil {
			logger.Warn().Err(err).Msg("docker engine client unavailable, using the docker CLI")
		} else {
			a.closers = append(a.closers, engine.Close)
			opts.Engine = engine
		}
	}
	if cfg.Ports.ActiveProbe || opt.Probe {
		probeOpts := []collector.ProbeOption{
			collector.WithProbePorts(cfg.Ports.ProbePorts),
			collector.WithProbeTarget(cfg.Ports.ProbeTarget),
		}
		if cfg.Ports.ProbeTime != nil {
			probeOpts = append(probeOpts, collector.WithProbeTimeout(cfg.Ports.ProbeTime.Duration()))
		}
		opts.Probe = collector.NewLoopbackProber(logger, probeOpts...)
	}

	registry := collector.NewRegistry(router, profiles, opts, diag, logger)

	eventBus := service.NewEventBus()
	events := make(chan service.Event, 100)
	eventBus.Subscribe(events)
	go logEvents(ctx, events, logger)

	a.inventory = service.NewInventory(registry, eventBus, logger)
	return a, nil
}

func logEvents(ctx context.Context, events <-chan service.Event, logger zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			e := logger.Debug().Str("event", string(ev.Type)).Str("cycle", ev.CycleID)
			if f, ok := ev.Payload.(service.KindFailure); ok {
				e = e.Str("kind", f.Kind).Str("cause", f.Cause)
			}
			e.Msg("inventory event")
		}
	}
}

// Close releases bridges, clients and the diagnostic log
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Debug().Err(err).Msg("close failed")
		}
	}
}

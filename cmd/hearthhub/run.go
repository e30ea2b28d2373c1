package main

import (
	"context"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/raro42/hearthhub/internal/catalog"
	"github.com/raro42/hearthhub/internal/channels"
	"github.com/raro42/hearthhub/internal/channels/discord"
	"github.com/raro42/hearthhub/internal/channels/slack"
	"github.com/raro42/hearthhub/internal/config"
	"github.com/raro42/hearthhub/internal/defaults"
	"github.com/raro42/hearthhub/internal/dispatcher"
	"github.com/raro42/hearthhub/internal/llm"
	"github.com/raro42/hearthhub/internal/logging"
	"github.com/raro42/hearthhub/internal/registry"
	"github.com/raro42/hearthhub/internal/remotetool"
	"github.com/raro42/hearthhub/internal/router"
	"github.com/raro42/hearthhub/internal/scheduler"
	"github.com/raro42/hearthhub/internal/session"
	"github.com/raro42/hearthhub/internal/tasks"
	"github.com/raro42/hearthhub/internal/tools"
)

func runAll(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := defaults.Seed(cfg.DataDir); err != nil {
		logging.Warnf("seed defaults: %v", err)
	}

	ollamaURL, err := url.Parse(cfg.OllamaBaseURL)
	if err != nil {
		return err
	}
	client := api.NewClient(ollamaURL, nil)
	provider := llm.NewOllamaProvider(client)
	admin := llm.NewAdmin(client)

	cat, err := catalog.Build(ctx, client)
	if err != nil {
		logging.Warnf("catalog: build failed, role resolution disabled: %v", err)
		cat = &catalog.Catalog{}
	}

	agentsDir := filepath.Join(cfg.DataDir, "agents")
	skillsDir := filepath.Join(cfg.DataDir, "skills")
	taskDir := filepath.Join(cfg.DataDir, "task")
	schedulesPath := filepath.Join(cfg.DataDir, "schedules.json")
	channelsPath := filepath.Join(cfg.DataDir, "channels.json")

	agents, err := registry.LoadAgents(agentsDir)
	if err != nil {
		logging.Warnf("registry: load agents: %v", err)
	}
	registry.ResolveRoles(agents, cat)

	skills, err := registry.LoadSkills(skillsDir)
	if err != nil {
		logging.Warnf("registry: load skills: %v", err)
	}

	taskStore, err := tasks.NewStore(taskDir)
	if err != nil {
		return err
	}

	scheduleStore, err := scheduler.NewStore(schedulesPath)
	if err != nil {
		return err
	}

	var remote tools.RemoteToolClient
	if cfg.RemoteToolServer != "" {
		remote = remotetool.NewClient(cfg.RemoteToolServer)
	}

	sessions := session.New(cfg.DataDir)

	r := &router.Router{
		LLM:                provider,
		Catalog:            cat,
		Agents:             agents,
		Skills:             skills,
		Tasks:              taskStore,
		Schedules:          scheduleStore,
		Remote:             remote,
		Ollama:             admin,
		Sessions:           sessions,
		DataDir:            cfg.DataDir,
		AllowLocalCommands: cfg.AllowLocalCommands,
		AllowPythonScript:  cfg.AllowPythonScript,
		BraveSearchAPIKey:  cfg.BraveSearchAPIKey,
	}

	schedRunner := scheduler.NewRunner(scheduleStore, &router.SchedulerExecutor{Router: r}, nil)
	reviewer := tasks.NewReviewer(taskStore, &router.TaskAnswerer{Router: r})
	reviewer.Interval = time.Duration(cfg.ReviewIntervalSeconds) * time.Second
	reviewer.WIPTimeout = time.Duration(cfg.WIPTimeoutSeconds) * time.Second
	reviewer.MaxTasksPerCycle = cfg.MaxTasksPerReviewCycle

	soul, _ := defaults.Get("soul.md")
	chanCfg := dispatcher.LoadConfig(channelsPath)
	disp := dispatcher.New(chanCfg, r, provider, cat, string(soul))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DiscordBotToken != "" {
		adapter := discord.New()
		r.Discord = adapter
		if err := connectAdapter(ctx, disp, adapter, cfg.DiscordBotToken); err != nil {
			logging.Errorf("discord: %v", err)
		}
	}
	if cfg.SlackBotToken != "" {
		adapter := slack.New()
		if err := connectAdapter(ctx, disp, adapter, cfg.SlackBotToken); err != nil {
			logging.Errorf("slack: %v", err)
		}
	}

	go schedRunner.Run(ctx)
	go reviewer.Run(ctx)
	go disp.Run(ctx)

	logging.Infof("hearthhub: running (data dir %s)", cfg.DataDir)
	<-ctx.Done()
	logging.Infof("hearthhub: shutting down")
	return nil
}

func connectAdapter(ctx context.Context, disp *dispatcher.Dispatcher, adapter channels.Adapter, token string) error {
	adapter.SetHandler(func(msg channels.InboundMessage) {
		disp.Handle(ctx, msg)
	})
	if err := adapter.Connect(ctx, channels.ChannelConfig{Token: token}); err != nil {
		return err
	}
	disp.RegisterAdapter(adapter)
	return nil
}


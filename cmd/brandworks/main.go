package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	brandconfig "brandworks/internal/config"

	"brandworks/internal/api"
	"brandworks/internal/artifacts"
	"brandworks/internal/content"
	"brandworks/internal/design"
	"brandworks/internal/facebook"
	"brandworks/internal/intel"
	"brandworks/internal/prompts"
	"brandworks/internal/render"
	"brandworks/internal/screenshot"
	"brandworks/internal/webfetch"
	"brandworks/internal/workflow"
	"brandworks/pkg/config"
	"brandworks/pkg/llm"
	"brandworks/pkg/logging"
	"brandworks/pkg/monitoring"
	"brandworks/pkg/server"
	"brandworks/pkg/version"
)

func main() {
	urlFlag := flag.String("url", "", "run the workflow for one URL and exit")
	phaseFlag := flag.String("phase", "", "with -url, run only this phase (business_intelligence, design_analysis, facebook_scraper, social_content, prompt_generation, image_rendering)")
	flag.Parse()

	// Setup logger
	logger := logging.NewLoggerWithService("brandworks")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Brandworks (brand analysis & campaign pipeline)")

	cfg, err := brandconfig.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	store, err := artifacts.NewStore(cfg.ArtifactDir)
	if err != nil {
		logger.WithError(err).Fatal("Could not initialize artifact store")
	}

	// Run registry: Redis when configured, in-memory otherwise
	var runs workflow.RunStore
	if cfg.RedisAddr != "" {
		redisStore, err := workflow.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RunTTL)
		if err != nil {
			logger.WithError(err).Fatal("Could not connect run registry to Redis")
		}
		defer func() { _ = redisStore.Close() }()
		runs = redisStore
		logger.WithField("addr", cfg.RedisAddr).Info("Run registry backed by Redis")
	} else {
		memStore := workflow.NewMemoryStore(cfg.RunTTL)
		defer memStore.Close()
		runs = memStore
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("brandworks", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("brandworks", version.Version, version.GitCommit)

	healthChecker.AddCheck("artifacts", monitoring.DirectoryHealthCheck(store.Root()))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"TEXT_PROVIDER_KEY": cfg.APIKeyFor(cfg.TextProvider),
	}))

	shared, cleanup, err := newSharedComponents(cfg, store, logger)
	if err != nil {
		logger.WithError(err).Fatal("Could not build pipeline")
	}
	defer cleanup()

	factory := func(prefs workflow.Providers) (*workflow.Orchestrator, error) {
		phases, err := shared.phases(cfg, prefs)
		if err != nil {
			return nil, err
		}
		return workflow.NewOrchestrator(
			phases.analyzer, phases.designer, shared.scraper, phases.creator, shared.renderer,
			store, runs, metricsCollector, logger,
		), nil
	}

	if *urlFlag != "" {
		os.Exit(runOnce(factory, shared, cfg, store, *urlFlag, *phaseFlag, logger))
	}

	runner := workflow.NewRunner(factory, runs, logger)
	defer runner.Shutdown()

	router := server.SetupServiceRouter(logger, "brandworks", healthChecker, metricsCollector)
	api.NewHandler(runner, runs, store, logger).Register(router)

	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.Host
	srvCfg.Port = cfg.Port
	if err := server.Start(srvCfg, router, logger); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
}

// sharedComponents live for the process: the fetcher, the screenshot
// capturer, the scraping client and the renderer do not vary per run.
type sharedComponents struct {
	fetcher  *webfetch.Client
	capturer screenshot.Capturer
	scraper  *facebook.Client
	renderer *render.Renderer
	store    *artifacts.Store
	logger   logging.Logger
}

// phaseComponents vary per run with the provider preferences.
type phaseComponents struct {
	analyzer *intel.Analyzer
	designer *design.Analyzer
	creator  *content.Creator
}

func newSharedComponents(cfg *brandconfig.Config, store *artifacts.Store, logger logging.Logger) (*sharedComponents, func(), error) {
	cleanup := func() {}

	var capturer screenshot.Capturer
	if cfg.ScreenshotMode == "browser" {
		browser, err := screenshot.NewBrowserCapturer()
		if err != nil {
			return nil, cleanup, fmt.Errorf("headless browser: %w", err)
		}
		cleanup = browser.Close
		capturer = browser
	} else {
		capturer = screenshot.NewRemoteCapturer(cfg.ScreenshotURL, cfg.ScreenshotAPIKey)
	}

	// Image generation is pinned to gemini; without a key the renderer
	// falls back to the solid brand canvas.
	var imageGen llm.ImageProvider
	if cfg.GeminiAPIKey != "" {
		var err error
		imageGen, err = llm.NewImageProvider(llm.Config{Provider: "gemini", APIKey: cfg.GeminiAPIKey})
		if err != nil {
			return nil, cleanup, fmt.Errorf("image provider: %w", err)
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set - generated backgrounds disabled, using solid canvases")
	}

	return &sharedComponents{
		fetcher:  webfetch.NewClient(cfg.FetchTimeout, logger),
		capturer: capturer,
		scraper:  facebook.NewClient(cfg.BrightDataAPIKey, cfg.BrightDataDatasetID, logger),
		renderer: render.NewRenderer(store, imageGen, logger),
		store:    store,
		logger:   logger,
	}, cleanup, nil
}

func (s *sharedComponents) phases(cfg *brandconfig.Config, prefs workflow.Providers) (*phaseComponents, error) {
	textName := pick(prefs.Text, cfg.TextProvider)
	text, err := llm.NewProvider(llm.Config{Provider: textName, APIKey: cfg.APIKeyFor(textName)})
	if err != nil {
		return nil, fmt.Errorf("text provider: %w", err)
	}

	strategyName := pick(prefs.Strategy, cfg.StrategyProvider)
	strategy, err := llm.NewProvider(llm.Config{Provider: strategyName, APIKey: cfg.APIKeyFor(strategyName)})
	if err != nil {
		return nil, fmt.Errorf("strategy provider: %w", err)
	}

	visionName := pick(prefs.Vision, cfg.VisionProvider)
	vision, err := llm.NewVisionProvider(llm.Config{Provider: visionName, APIKey: cfg.APIKeyFor(visionName)})
	if err != nil {
		return nil, fmt.Errorf("vision provider: %w", err)
	}

	founders := intel.NewFounderExtractor(s.fetcher, text, s.logger)
	return &phaseComponents{
		analyzer: intel.NewAnalyzer(s.fetcher, founders, text, s.logger),
		designer: design.NewAnalyzer(s.capturer, vision, s.logger),
		creator:  content.NewCreator(strategy, s.store, s.logger),
	}, nil
}

// runOnce executes the whole workflow, or a single phase, for one URL.
func runOnce(factory workflow.OrchestratorFactory, shared *sharedComponents, cfg *brandconfig.Config, store *artifacts.Store, url, phase string, logger logging.Logger) int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if phase == "" {
		orchestrator, err := factory(workflow.Providers{})
		if err != nil {
			logger.WithError(err).Error("Could not build pipeline")
			return 1
		}
		run := workflow.NewRun("cli", url, workflow.Providers{})
		orchestrator.Execute(ctx, run)
		if run.Status != workflow.StatusCompleted {
			logger.WithField("error", run.Error).Error("Run failed")
			return 1
		}
		logger.WithField("images", run.Images).Info("Run completed")
		return 0
	}

	if err := runSinglePhase(ctx, shared, cfg, store, url, phase, logger); err != nil {
		logger.WithError(err).Error("Phase failed")
		return 1
	}
	return 0
}

// runSinglePhase runs one named phase, loading its upstream inputs from
// the most recent artifacts on disk.
func runSinglePhase(ctx context.Context, shared *sharedComponents, cfg *brandconfig.Config, store *artifacts.Store, url, phase string, logger logging.Logger) error {
	domain := artifacts.SanitizeDomain(url)
	deps, err := shared.phases(cfg, workflow.Providers{})
	if err != nil {
		return err
	}

	switch phase {
	case workflow.PhaseBusinessIntelligence:
		profile, err := deps.analyzer.Analyze(ctx, url)
		if err != nil {
			return err
		}
		_, err = store.WriteJSON("brand-analysis", domain, profile)
		return err

	case workflow.PhaseDesignAnalysis:
		profile := deps.designer.Analyze(ctx, url)
		_, err := store.WriteJSON("design-analysis", domain, profile)
		return err

	case workflow.PhaseFacebookScraper:
		var brand intel.BrandProfile
		if _, err := store.MostRecent("brand-analysis", domain, &brand); err != nil {
			return fmt.Errorf("load brand-analysis artifact: %w", err)
		}
		fbURL := ""
		for _, acct := range brand.SocialMediaAccounts {
			if acct.Platform == "facebook" {
				fbURL = acct.URL
			}
		}
		if fbURL == "" {
			return fmt.Errorf("no facebook account in brand analysis")
		}
		set, err := shared.scraper.Scrape(ctx, fbURL)
		if err != nil {
			return err
		}
		_, err = store.WriteJSON("facebook-posts", domain, set)
		return err

	case workflow.PhaseSocialContent:
		var brand intel.BrandProfile
		if _, err := store.MostRecent("brand-analysis", domain, &brand); err != nil {
			return fmt.Errorf("load brand-analysis artifact: %w", err)
		}
		var dp design.DesignProfile
		if _, err := store.MostRecent("design-analysis", domain, &dp); err != nil {
			return fmt.Errorf("load design-analysis artifact: %w", err)
		}
		plan, err := deps.creator.Create(ctx, domain, &brand, &dp, nil)
		if err != nil {
			return err
		}
		_, err = store.WriteJSON("social-content", domain, plan)
		return err

	case workflow.PhasePromptGeneration:
		var plan content.Plan
		if _, err := store.MostRecent("social-content", domain, &plan); err != nil {
			return fmt.Errorf("load social-content artifact: %w", err)
		}
		var dp design.DesignProfile
		if _, err := store.MostRecent("design-analysis", domain, &dp); err != nil {
			return fmt.Errorf("load design-analysis artifact: %w", err)
		}
		_, err := store.WriteJSON("instagram-prompts", domain, prompts.Build(&plan, &dp))
		return err

	case workflow.PhaseImageRendering:
		var set prompts.Set
		if _, err := store.MostRecent("instagram-prompts", domain, &set); err != nil {
			return fmt.Errorf("load instagram-prompts artifact: %w", err)
		}
		var dp design.DesignProfile
		if _, err := store.MostRecent("design-analysis", domain, &dp); err != nil {
			return fmt.Errorf("load design-analysis artifact: %w", err)
		}
		images := shared.renderer.RenderAll(ctx, domain, &set, &dp)
		if len(images) == 0 {
			return fmt.Errorf("no images rendered")
		}
		logger.WithField("count", len(images)).Info("Images rendered")
		return nil

	default:
		return fmt.Errorf("unknown phase %q", phase)
	}
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"recovr/internal/api"
	"recovr/internal/catalog"
	"recovr/internal/config"
	"recovr/internal/logging"
	"recovr/internal/matching"
	"recovr/internal/notify"
	"recovr/internal/searchreq"
	"recovr/internal/storage"
	"recovr/internal/users"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

// deps bundles the wired application for one command invocation.
type deps struct {
	db        *storage.DB
	catalog   *catalog.Store
	users     *users.Directory
	notify    *notify.Service
	requests  *searchreq.Service
	reqStore  *searchreq.Store
	pipeline  *matching.Pipeline
	matchAPI  *api.MatchService
	closeFunc func()
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{configFlag: configFlag, jsonFlag: jsonFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// withDeps opens the database and wires the full application graph, closing
// everything when fn returns.
func (c *commandContext) withDeps(fn func(*deps) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	db, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	catalogStore := catalog.NewStore(db)
	directory := users.NewDirectory(db)
	notifier := notify.NewService(db)
	resolver := matching.NewUploadResolver(cfg, logger)

	oracle, err := matching.NewScriptOracle(cfg, logger)
	if err != nil {
		_ = db.Close()
		return err
	}

	dispatcher := matching.NewDispatcher(directory, notifier, cfg.Notifications.Enabled, logger)
	pipeline := matching.NewPipeline(cfg, catalogStore, oracle, resolver, dispatcher, logger)

	requestStore := searchreq.NewStore(db)
	requestService := searchreq.NewService(requestStore, pipeline, resolver, directory, logger)
	matchAPI := api.NewMatchService(cfg, pipeline, requestService, logger)

	d := &deps{
		db:       db,
		catalog:  catalogStore,
		users:    directory,
		notify:   notifier,
		requests: requestService,
		reqStore: requestStore,
		pipeline: pipeline,
		matchAPI: matchAPI,
		closeFunc: func() { _ = db.Close() },
	}
	defer d.closeFunc()
	return fn(d)
}

// withPipelineLock serializes matcher-invoking commands across processes so
// two runs never race the oracle or double-notify.
func (c *commandContext) withPipelineLock(fn func(*deps) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "recovr.lock"))
	acquired, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire pipeline lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("another recovr matching run is in progress (lock: %s)", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	return c.withDeps(fn)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

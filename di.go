package main

import (
	"io"
	"time"

	"github.com/samber/do/v2"
	"github.com/samber/oops"
	"github.com/spf13/afero"
)

// runOptions carries command-line settings into the injector.
type runOptions struct {
	configPath  string
	dir         string
	template    string
	release     string
	baseURL     string
	maxAttempts int
	baseDelay   time.Duration
	noWait      bool
}

// newInjector registers every component of a run. Nothing is built until
// it is invoked, so `eta` never touches settings.ini.
func newInjector(opts runOptions, log *logger, out io.Writer, fs afero.Fs) do.Injector {
	injector := do.New()

	do.Provide(injector, func(i do.Injector) (appConfig, error) {
		cfg, err := loadConfig(opts.configPath)
		if err != nil {
			return appConfig{}, err
		}
		return resolveSession(cfg)
	})

	do.Provide(injector, func(i do.Injector) (*apiClient, error) {
		cfg, err := do.Invoke[appConfig](i)
		if err != nil {
			return nil, err
		}
		return newAPIClient(opts.baseURL, cfg.Session, defaultUA)
	})

	// The countdown page is public, so the estimator uses its own
	// cookie-less client.
	do.Provide(injector, func(i do.Injector) (*dropEstimator, error) {
		client, err := newAPIClient(opts.baseURL, "", defaultUA)
		if err != nil {
			return nil, err
		}
		return newDropEstimator(client, opts.release, log)
	})

	do.Provide(injector, func(i do.Injector) (*fetcher, error) {
		client, err := do.Invoke[*apiClient](i)
		if err != nil {
			return nil, err
		}
		if opts.maxAttempts <= 0 {
			return nil, oops.With("max_attempts", opts.maxAttempts).Errorf("--max-attempts must be > 0")
		}
		f := &fetcher{
			client:      client,
			maxAttempts: opts.maxAttempts,
			baseDelay:   opts.baseDelay,
			log:         log,
		}
		if !opts.noWait {
			est, err := do.Invoke[*dropEstimator](i)
			if err != nil {
				return nil, err
			}
			f.waiter = &releaseWait{est: est, cd: newCountdown(out), log: log}
		}
		return f, nil
	})

	do.Provide(injector, func(i do.Injector) (*scaffolder, error) {
		return &scaffolder{fs: fs, root: opts.dir, template: opts.template}, nil
	})

	return injector
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

// Command names.
const (
	cmdFetch = "fetch"
	cmdETA   = "eta"
	cmdLogin = "login"
)

func main() {
	_ = godotenv.Load()
	log := newLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, log, os.Stdin, os.Stdout, os.Stderr, os.Args)
	stop()
	if err != nil {
		log.err(err.Error())
		os.Exit(1)
	}
}

// app holds what every command action needs.
type app struct {
	ctx    context.Context
	log    *logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs
}

func run(ctx context.Context, log *logger, stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	a := &app{ctx: ctx, log: log, stdin: stdin, stdout: stdout, stderr: stderr, fs: afero.NewOsFs()}
	return a.newCLI().Run(args)
}

var configFlag = cli.StringFlag{
	Name:  "config, c",
	Usage: "path to the settings file",
	Value: defaultConfigPath,
}

var releaseFlag = cli.StringFlag{
	Name:  "release",
	Usage: "release schedule as a cron expression in UTC",
	Value: defaultReleaseCron,
}

var baseURLFlag = cli.StringFlag{
	Name:   "base-url",
	Value:  defaultBaseURL,
	Hidden: true,
}

var fetchFlags = []cli.Flag{
	configFlag,
	cli.StringFlag{
		Name:  "dir, d",
		Usage: "folder in which the day folder is created",
		Value: ".",
	},
	cli.StringFlag{
		Name:  "template, t",
		Usage: "folder whose files are copied into every new day",
	},
	releaseFlag,
	cli.IntFlag{
		Name:  "max-attempts",
		Usage: "give up after this many requests",
		Value: defaultMaxAttempts,
	},
	cli.DurationFlag{
		Name:  "base-delay",
		Usage: "retry n waits n times this long",
		Value: defaultBaseDelay,
	},
	cli.BoolFlag{
		Name:  "no-wait",
		Usage: "retry without waiting for the release",
	},
	baseURLFlag,
}

func (a *app) newCLI() *cli.App {
	c := cli.NewApp()
	c.Name = "aocfetch"
	c.HelpName = "aocfetch"
	c.Usage = "fetch today's Advent of Code input and scaffold a folder for it"
	c.UsageText = "aocfetch [command] [arguments...]"
	c.Version = "1.0.0"
	c.Writer = a.stdout
	c.ErrWriter = a.stderr
	c.Flags = fetchFlags
	c.Action = a.fetch
	c.Commands = []cli.Command{
		{
			Name:   cmdFetch,
			Usage:  "download the input for the configured day (default)",
			Flags:  fetchFlags,
			Action: a.fetch,
		},
		{
			Name:   cmdETA,
			Usage:  "show how long until the next puzzle unlocks",
			Flags:  []cli.Flag{releaseFlag, baseURLFlag},
			Action: a.eta,
		},
		{
			Name:      cmdLogin,
			Usage:     "store the session token in the OS keyring",
			ArgsUsage: "[TOKEN]",
			Action:    a.login,
		},
	}
	return c
}

func (a *app) fetch(c *cli.Context) error {
	opts := runOptions{
		configPath:  c.String("config"),
		dir:         c.String("dir"),
		template:    c.String("template"),
		release:     c.String("release"),
		baseURL:     c.String("base-url"),
		maxAttempts: c.Int("max-attempts"),
		baseDelay:   c.Duration("base-delay"),
		noWait:      c.Bool("no-wait"),
	}
	injector := newInjector(opts, a.log, a.stdout, a.fs)

	cfg, err := do.Invoke[appConfig](injector)
	if err != nil {
		if errors.Is(err, errConfig) {
			return fmt.Errorf("%s seems misconfigured, expected session, year and day lines: %w", opts.configPath, err)
		}
		return err
	}
	f, err := do.Invoke[*fetcher](injector)
	if err != nil {
		return err
	}

	a.log.infof("fetching input: year=%d day=%d", cfg.Year, cfg.Day)
	start := time.Now()
	payload, err := f.fetch(a.ctx, inputPath(cfg.Year, cfg.Day))
	if err != nil {
		if errors.Is(err, errCancelled) {
			a.log.warn("Let's try again later")
			return nil
		}
		var ae *apiError
		if errors.As(err, &ae) {
			msg := fmt.Sprintf("couldn't retrieve today's input (%d %s)", ae.StatusCode, ae.Reason)
			if snippet := ae.snippet(); snippet != "" {
				msg += ": " + snippet
			}
			return fmt.Errorf("%s, try updating the session in %s", msg, opts.configPath)
		}
		return err
	}
	a.log.okf("input fetched: %d bytes (elapsed %s)", len(payload), time.Since(start).Round(10*time.Millisecond))

	sc, err := do.Invoke[*scaffolder](injector)
	if err != nil {
		return err
	}
	dir, err := sc.buildDay(cfg.Day, payload)
	if err != nil {
		return err
	}
	if err := advanceDay(opts.configPath, cfg); err != nil {
		return err
	}
	a.log.okf("created %s, next day is %d. Success! Happy Coding!", dir, cfg.Day+1)
	return nil
}

func (a *app) eta(c *cli.Context) error {
	injector := newInjector(runOptions{
		release: c.String("release"),
		baseURL: c.String("base-url"),
	}, a.log, a.stdout, a.fs)

	est, err := do.Invoke[*dropEstimator](injector)
	if err != nil {
		return err
	}
	secs, err := est.secondsUntilDrop(a.ctx)
	if err != nil {
		return err
	}
	target := est.now().Add(time.Duration(secs) * time.Second)
	_, _ = fmt.Fprintf(a.stdout, "%d seconds until the next puzzle (%s)\n", secs, target.Local().Format(time.RFC3339))
	return nil
}

func (a *app) login(c *cli.Context) error {
	token := c.Args().First()
	if token == "" {
		_, _ = fmt.Fprint(a.stdout, "session token: ")
		sc := bufio.NewScanner(a.stdin)
		if sc.Scan() {
			token = sc.Text()
		}
		if err := sc.Err(); err != nil {
			return err
		}
	}
	if err := storeSession(strings.TrimSpace(token)); err != nil {
		return err
	}
	a.log.okf("session saved; set %s=%s in %s to use it", keySession, sessionFromKeyring, defaultConfigPath)
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sadopc/chop/internal/auth/oauth2"
	"github.com/sadopc/chop/internal/config"
	"github.com/sadopc/chop/internal/core/history"
	"github.com/sadopc/chop/internal/core/kv"
	"github.com/sadopc/chop/internal/identity/toolkit"
	"github.com/sadopc/chop/internal/logging"
	"github.com/sadopc/chop/internal/session"
	"github.com/sadopc/chop/internal/shortener"
)

// openBrowser is swapped out in tests.
var openBrowser = oauth2.OpenBrowser

// env is the set of services a command runs against.
type env struct {
	cfg       config.Config
	log       zerolog.Logger
	storage   kv.Storage
	history   *history.Store
	session   *session.Session
	shortener *shortener.Client

	logCloser io.Closer
}

// loadConfig reads --config, or the XDG default.
func loadConfig() config.Config {
	var cfg config.Config
	if configPath != "" {
		cfg = config.LoadFile(configPath)
	} else {
		cfg = config.Load()
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg
}

// openEnv wires storage, history, session and the shortening client. The TUI
// logs to a file since stderr belongs to the terminal UI; the other commands
// log to stderr.
func openEnv(cmd *cobra.Command, toFile bool) (*env, error) {
	cfg := loadConfig()

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	if toFile {
		logCfg.File = cfg.LogPath()
	}
	log, closer, err := logging.Open(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	path := cfg.StoragePath()
	if cfg.Storage.Backend != kv.BackendMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			closer.Close()
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}
	storage, err := kv.Open(cfg.Storage.Backend, path)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	if f, ok := storage.(*kv.File); ok && f.Backup() != "" {
		log.Warn().Str("path", path).Str("backup", f.Backup()).Msg("store file was unreadable, starting empty")
	}
	log.Debug().Str("backend", cfg.Storage.Backend).Str("path", path).Msg("storage opened")

	provider := toolkit.New(toolkit.Config{
		APIKey:   cfg.Identity.APIKey,
		BaseURL:  cfg.Identity.BaseURL,
		TokenURL: cfg.Identity.TokenURL,
		Google: oauth2.Config{
			ClientID:     cfg.Identity.GoogleClientID,
			ClientSecret: cfg.Identity.GoogleClientSecret,
		},
	},
		toolkit.WithOpener(openBrowser),
		toolkit.WithLogger(logging.WithComponent(log, "identity")),
	)

	sess := session.New(provider, storage,
		session.WithPassphrase(cfg.Identity.SessionPassphrase),
		session.WithLogger(logging.WithComponent(log, "session")),
	)

	tlsCfg, err := cfg.TLS.Load()
	if err != nil {
		kv.Close(storage)
		closer.Close()
		return nil, fmt.Errorf("loading tls settings: %w", err)
	}

	client := shortener.New(shortener.Endpoint(cfg.APIBaseURL, cfg.ShortenPath),
		shortener.WithTimeout(cfg.Timeout),
		shortener.WithProxy(cfg.Proxy),
		shortener.WithTLS(tlsCfg),
		shortener.WithTokenSource(sess.Token),
		shortener.WithLogger(logging.WithComponent(log, "shortener")),
	)

	return &env{
		cfg:       cfg,
		log:       log,
		storage:   storage,
		history:   history.NewStore(storage, history.WithLogger(logging.WithComponent(log, "history"))),
		session:   sess,
		shortener: client,
		logCloser: closer,
	}, nil
}

func (e *env) Close() {
	e.session.Close()
	if err := kv.Close(e.storage); err != nil {
		e.log.Warn().Err(err).Msg("closing storage")
	}
	_ = e.logCloser.Close()
}

// commandContext returns cmd's context, or Background when the command was
// not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

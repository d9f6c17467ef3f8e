package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0xcro3dile/ragctl/internal/adapters/ragapi"
	"github.com/0xcro3dile/ragctl/internal/config"
	"github.com/0xcro3dile/ragctl/internal/domain/entities"
	"github.com/0xcro3dile/ragctl/internal/domain/usecases"
	"github.com/0xcro3dile/ragctl/internal/infrastructure/terminal"
)

// app holds the wired controllers shared by every command.
type app struct {
	cfg      *config.Config
	client   *ragapi.Client
	status   *usecases.StatusNotifier
	registry *usecases.DocumentRegistry
	uploads  *usecases.UploadPipeline
	chat     *usecases.ChatSession
	logFile  io.Closer
}

// newApp loads configuration and builds the controller graph.
func newApp(v *viper.Viper, configFile string) (*app, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		log.SetOutput(f)
		a.logFile = f
	}

	if cfg.Debug {
		log.Printf("[DEBUG] Config: base_url=%s timeout=%s drop_dir=%q", cfg.BaseURL, cfg.RequestTimeout, cfg.DropDir)
	}

	a.client = ragapi.NewClient(cfg.BaseURL, cfg.RequestTimeout, ragapi.WithDebug(cfg.Debug))
	a.status = usecases.NewStatusNotifier(cfg.StatusTTL)
	a.registry = usecases.NewDocumentRegistry(a.client)
	a.uploads = usecases.NewUploadPipeline(a.client, a.status, a.registry, cfg.QueueSize)
	a.chat = usecases.NewChatSession(a.client, usecases.NewTranscript())
	return a, nil
}

func (a *app) close() {
	a.status.Stop()
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// printStatuses echoes every visible status line to w.
func (a *app) printStatuses(w io.Writer) {
	a.status.Subscribe(func() {
		if line := terminal.FormatStatus(a.status.Current()); line != "" {
			fmt.Fprintln(w, line)
		}
	})
}

// localFiles turns command arguments into upload selections.
func localFiles(paths []string) []entities.LocalFile {
	files := make([]entities.LocalFile, len(paths))
	for i, p := range paths {
		files[i] = entities.LocalFile{Name: filepath.Base(p), Path: p}
	}
	return files
}

// withApp runs fn with a freshly wired app, closing it afterwards.
func withApp(v *viper.Viper, configFile *string, fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(v, *configFile)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args, a)
	}
}

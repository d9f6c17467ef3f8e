package main

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0xcro3dile/ragctl/internal/adapters/filewatcher"
	"github.com/0xcro3dile/ragctl/internal/domain/usecases"
	"github.com/0xcro3dile/ragctl/internal/infrastructure/terminal"
)

func rootCMD() *cobra.Command {
	v := viper.New()
	var configFile string

	chat := chatCMD(v, &configFile)
	root := &cobra.Command{
		Use:          "ragctl",
		Short:        "Upload documents to a RAG service and chat with them",
		SilenceUsage: true,
		RunE:         chat.RunE,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default ./ragctl.yaml)")
	flags.String("base-url", "", "service base URL")
	flags.Duration("timeout", 0, "per-request timeout")
	flags.Bool("debug", false, "log requests")
	_ = v.BindPFlag("base_url", flags.Lookup("base-url"))
	_ = v.BindPFlag("request_timeout", flags.Lookup("timeout"))
	_ = v.BindPFlag("debug", flags.Lookup("debug"))

	root.AddCommand(
		chat,
		uploadCMD(v, &configFile),
		docsCMD(v, &configFile),
		askCMD(v, &configFile),
		clearCacheCMD(v, &configFile),
		watchCMD(v, &configFile),
		healthCMD(v, &configFile),
	)
	return root
}

func chatCMD(v *viper.Viper, configFile *string) *cobra.Command {
	var dropDir string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive console (default)",
		Args:  cobra.NoArgs,
		RunE: withApp(v, configFile, func(cmd *cobra.Command, args []string, a *app) error {
			ctx := cmd.Context()

			dir := dropDir
			if dir == "" {
				dir = a.cfg.DropDir
			}
			if dir != "" {
				watcher, err := filewatcher.NewDropWatcher(a.cfg.AllowedExtensions)
				if err != nil {
					return err
				}
				defer watcher.Stop()
				go func() {
					if err := a.uploads.WatchDropFolder(ctx, watcher, dir); err != nil {
						log.Printf("[ERROR] Drop folder: %v", err)
					}
				}()
			}

			console := terminal.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout(), terminal.Deps{
				Service:  a.client,
				Chat:     a.chat,
				Uploads:  a.uploads,
				Registry: a.registry,
				Status:   a.status,
			})
			return console.Run(ctx)
		}),
	}
	cmd.Flags().StringVar(&dropDir, "drop-dir", "", "also upload files created in this folder")
	return cmd
}

func uploadCMD(v *viper.Viper, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>...",
		Short: "Upload files one at a time, then list documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(v, configFile, func(cmd *cobra.Command, args []string, a *app) error {
			out := cmd.OutOrStdout()
			a.printStatuses(out)

			outcomes := a.uploads.Process(cmd.Context(), localFiles(args))

			fmt.Fprintln(out, "── Documents ──")
			fmt.Fprint(out, terminal.FormatDocuments(a.registry.Snapshot()))

			failed := 0
			for _, o := range outcomes {
				if !o.OK() {
					failed++
					continue
				}
				if a.cfg.Debug {
					log.Printf("[DEBUG] %s stored as document %d", o.File.Name, o.Result.DocumentID)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(outcomes))
			}
			return nil
		}),
	}
}

func docsCMD(v *viper.Viper, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "List ingested documents",
		Args:  cobra.NoArgs,
		RunE: withApp(v, configFile, func(cmd *cobra.Command, args []string, a *app) error {
			err := a.registry.Refresh(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), terminal.FormatDocuments(a.registry.Snapshot()))
			return err
		}),
	}
}

func askCMD(v *viper.Viper, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>...",
		Short: "Ask one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(v, configFile, func(cmd *cobra.Command, args []string, a *app) error {
			if !a.chat.Submit(cmd.Context(), strings.Join(args, " ")) {
				return errors.New("question is empty")
			}
			msgs := a.chat.Transcript().Messages()
			for _, m := range msgs {
				fmt.Fprintln(cmd.OutOrStdout(), terminal.FormatMessage(m))
			}
			if last := msgs[len(msgs)-1]; last.Metadata == nil {
				return errors.New("question failed")
			}
			return nil
		}),
	}
}

func clearCacheCMD(v *viper.Viper, configFile *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear-cache",
		Short: "Clear the service's answer cache",
		Args:  cobra.NoArgs,
		RunE: withApp(v, configFile, func(cmd *cobra.Command, args []string, a *app) error {
			dialog := terminal.NewPromptDialog(cmd.InOrStdin(), cmd.OutOrStdout(), yes)
			_, err := usecases.NewCacheControl(a.client, dialog).Clear(cmd.Context())
			return err
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func watchCMD(v *viper.Viper, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Upload every file dropped into a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(v, configFile, func(cmd *cobra.Command, args []string, a *app) error {
			dir := a.cfg.DropDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return errors.New("no folder given and drop_dir is not set")
			}

			watcher, err := filewatcher.NewDropWatcher(a.cfg.AllowedExtensions)
			if err != nil {
				return err
			}
			defer watcher.Stop()

			out := cmd.OutOrStdout()
			a.printStatuses(out)
			a.registry.Subscribe(func() {
				fmt.Fprint(out, terminal.FormatDocuments(a.registry.Snapshot()))
			})

			ctx := cmd.Context()
			go a.uploads.Run(ctx)
			return a.uploads.WatchDropFolder(ctx, watcher, dir)
		}),
	}
}

func healthCMD(v *viper.Viper, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		Args:  cobra.NoArgs,
		RunE: withApp(v, configFile, func(cmd *cobra.Command, args []string, a *app) error {
			h, err := a.client.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Service: %s | Database: %s | Cache: %s\n", h.Status, h.Database, h.Cache)
			return nil
		}),
	}
}

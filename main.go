package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/orayew2002/pic2excel/config"
	"github.com/orayew2002/pic2excel/encoder"
	"github.com/orayew2002/pic2excel/overlay"
	"github.com/orayew2002/pic2excel/pipeline"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("✗ "+err.Error()))
		stop()
		os.Exit(1)
	}
}

type options struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "pic2excel",
		Short:         "Turn profile pictures into pixel spreadsheets",
		Long:          "pic2excel downloads contact avatars, writes a greeting beside each one and encodes every picture as a spreadsheet with one coloured cell per pixel channel.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			setColor(cfg.ColoredOutput)

			start := time.Now()
			p := pipeline.New(cfg, pipeline.WithLogger(newLogger(opts.verbose)))
			if err := p.Run(cmd.Context()); err != nil {
				return err
			}

			printOK(cmd, "done in %.2fs, workbooks in %s", time.Since(start).Seconds(), cfg.ExcelSavePath)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "configs.yaml", "path to the YAML config")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(newEncodeCmd(opts), newOverlayCmd(opts), newDownloadCmd(opts))
	return root
}

func newEncodeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <image> <output.xlsx>",
		Short: "Encode a single picture as a spreadsheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadOrDefault(opts.configPath)
			if err != nil {
				return err
			}
			setColor(cfg.ColoredOutput)

			enc := encoder.New(cfg.EncoderOptions())
			if err := pipeline.EncodeImageFile(enc, args[0], args[1]); err != nil {
				return err
			}

			printOK(cmd, "%s → %s", args[0], args[1])
			return nil
		},
	}
}

func newOverlayCmd(opts *options) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "overlay <image> <output>",
		Short: "Write the greeting beside a single picture",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadOrDefault(opts.configPath)
			if err != nil {
				return err
			}
			setColor(cfg.ColoredOutput)

			if cfg.FontPath == "" {
				return fmt.Errorf("%w: font_path is required", config.ErrInvalid)
			}
			f, err := overlay.LoadFont(cfg.FontPath)
			if err != nil {
				return err
			}

			r := &overlay.Renderer{Font: f, Size: cfg.FontSize, Color: cfg.TextColor()}
			if err := r.RenderFile(args[0], args[1], overlay.Greeting(name, cfg.AddText)); err != nil {
				return err
			}

			printOK(cmd, "%s → %s", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "name to greet")
	return cmd
}

func newDownloadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Only download the avatars listed in wechat_path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			setColor(cfg.ColoredOutput)

			p := pipeline.New(cfg, pipeline.WithLogger(newLogger(opts.verbose)))
			if err := p.Download(cmd.Context()); err != nil {
				return err
			}

			printOK(cmd, "avatars in %s", cfg.HeadImgPath)
			return nil
		},
	}
}

// loadOrDefault falls back to the defaults when the config file does not exist.
func loadOrDefault(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Package pipeline runs the download, text and spreadsheet stages over the
// configured folders.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/orayew2002/pic2excel/config"
	"github.com/orayew2002/pic2excel/domain"
	"github.com/orayew2002/pic2excel/download"
	"github.com/orayew2002/pic2excel/encoder"
	"github.com/orayew2002/pic2excel/overlay"
	"github.com/schollz/progressbar/v3"
)

// Stage names, in run order.
const (
	StageDownload = "download"
	StageText     = "text"
	StageExcel    = "excel"
)

// Pipeline wires the stages to one configuration.
type Pipeline struct {
	cfg      *config.Config
	log      *slog.Logger
	progress io.Writer
	client   *http.Client
	registry *Registry
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithProgress sets where progress bars are drawn. The default is stderr.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) { p.progress = w }
}

// WithHTTPClient sets the client used by the download stage.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) { p.client = c }
}

// New creates a Pipeline with the built-in stages registered.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		log:      slog.Default(),
		progress: os.Stderr,
		registry: NewRegistry(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	p.registry.Register(StageDownload, func(c *config.Config) bool { return c.DownloadHeadImgMode }, p.Download)
	p.registry.Register(StageText, func(c *config.Config) bool { return c.AddTextMode }, p.AddText)
	p.registry.Register(StageExcel, func(c *config.Config) bool { return c.ImgToExcelMode }, p.ToExcel)

	return p
}

// Registry exposes the stage registry.
func (p *Pipeline) Registry() *Registry { return p.registry }

// Run creates the working folders and executes every enabled stage.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := EnsureDirs(p.cfg.HeadImgPath, p.cfg.TextImgPath, p.cfg.ExcelSavePath); err != nil {
		return err
	}

	ran, err := p.registry.Run(ctx, p.cfg)
	if err != nil {
		return err
	}

	p.log.Info("pipeline finished", "stages", ran)
	return nil
}

// Download fetches every avatar listed in the contact export into head_img_path.
// Individual download failures are logged, not returned.
func (p *Pipeline) Download(ctx context.Context) error {
	contacts, err := download.ReadContactsFile(p.cfg.WechatPath)
	if err != nil {
		return err
	}

	if err := EnsureDirs(p.cfg.HeadImgPath); err != nil {
		return err
	}

	d := &download.Downloader{Client: p.client, Dir: p.cfg.HeadImgPath, Logger: p.log}
	bar := p.newBar(len(contacts), "downloading")
	res := d.FetchAll(ctx, contacts, func() { bar.Add(1) })

	p.log.Info("download finished", "saved", len(res.Saved), "failed", res.Failed)
	return nil
}

// AddText draws the greeting beside every picture in head_img_path and writes
// the result to text_img_path under the same name.
func (p *Pipeline) AddText(ctx context.Context) error {
	f, err := overlay.LoadFont(p.cfg.FontPath)
	if err != nil {
		return err
	}
	r := &overlay.Renderer{Font: f, Size: p.cfg.FontSize, Color: p.cfg.TextColor()}

	if err := EnsureDirs(p.cfg.TextImgPath); err != nil {
		return err
	}

	return p.eachImage(ctx, p.cfg.HeadImgPath, "adding text", func(name string) error {
		in := filepath.Join(p.cfg.HeadImgPath, name)
		out := filepath.Join(p.cfg.TextImgPath, name)
		return r.RenderFile(in, out, overlay.Greeting(stem(name), p.cfg.AddText))
	})
}

// ToExcel encodes every picture in text_img_path to
// <excel_save_path>/<name>/<output_file_name>.xlsx.
func (p *Pipeline) ToExcel(ctx context.Context) error {
	enc := encoder.New(p.cfg.EncoderOptions())

	return p.eachImage(ctx, p.cfg.TextImgPath, "writing excel", func(name string) error {
		dir := filepath.Join(p.cfg.ExcelSavePath, stem(name))
		if err := EnsureDirs(dir); err != nil {
			return err
		}
		out := filepath.Join(dir, p.cfg.OutputFileName+".xlsx")
		return EncodeImageFile(enc, filepath.Join(p.cfg.TextImgPath, name), out)
	})
}

// EncodeImageFile decodes the picture at in and writes its spreadsheet to out.
func EncodeImageFile(enc *encoder.Encoder, in, out string) error {
	src, err := imaging.Open(in)
	if err != nil {
		return fmt.Errorf("open %s: %w", in, err)
	}

	return enc.EncodeFile(domain.FromImage(src), out)
}

// eachImage calls fn for every image in dir. Failures are collected and
// returned together once all files have been tried.
func (p *Pipeline) eachImage(ctx context.Context, dir, desc string, fn func(name string) error) error {
	files, err := ListImages(dir, p.log)
	if err != nil {
		return err
	}

	bar := p.newBar(len(files), desc)
	var errs []error

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if err := fn(name); err != nil {
			p.log.Error(desc+" failed", "file", name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		bar.Add(1)
	}

	return errors.Join(errs...)
}

func (p *Pipeline) newBar(n int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(p.progress),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(p.progress) }),
	)
}

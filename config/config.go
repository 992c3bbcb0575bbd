package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"time"

	"github.com/orayew2002/pic2excel/encoder"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds every setting of a run. It is loaded once and passed to each stage.
type Config struct {
	WechatPath    string `yaml:"wechat_path"`
	HeadImgPath   string `yaml:"head_img_path"`
	TextImgPath   string `yaml:"text_img_path"`
	ExcelSavePath string `yaml:"excel_save_path"`

	DownloadHeadImgMode bool `yaml:"download_head_img_mode"`
	AddTextMode         bool `yaml:"add_text_mode"`
	ImgToExcelMode      bool `yaml:"img_to_excel_mode"`

	FontPath  string  `yaml:"font_path"`
	FontSize  float64 `yaml:"font_size"`
	FontColor []int   `yaml:"font_color"`
	AddText   string  `yaml:"add_text"`

	OutputFileName string  `yaml:"output_file_name"`
	RowHeight      float64 `yaml:"row_height"`
	SheetName      string  `yaml:"sheet_name"`

	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	ColoredOutput bool          `yaml:"colored_output"`
}

// Default returns the configuration used for keys a file leaves out.
func Default() *Config {
	return &Config{
		WechatPath:     "wechat.csv",
		HeadImgPath:    "head_img",
		TextImgPath:    "text_img",
		ExcelSavePath:  "excel",
		ImgToExcelMode: true,
		FontSize:       24,
		FontColor:      []int{0, 0, 0},
		OutputFileName: "pixels",
		RowHeight:      encoder.DefaultRowHeight,
		SheetName:      encoder.DefaultSheetName,
		HTTPTimeout:    30 * time.Second,
		ColoredOutput:  true,
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the fields the enabled stages depend on.
func (c *Config) Validate() error {
	var errs []error

	if c.DownloadHeadImgMode && c.WechatPath == "" {
		errs = append(errs, fmt.Errorf("%w: wechat_path is required when download_head_img_mode is set", ErrInvalid))
	}

	if c.AddTextMode {
		if c.FontPath == "" {
			errs = append(errs, fmt.Errorf("%w: font_path is required when add_text_mode is set", ErrInvalid))
		}
		if c.FontSize <= 0 {
			errs = append(errs, fmt.Errorf("%w: font_size must be positive, got %v", ErrInvalid, c.FontSize))
		}
	}

	if len(c.FontColor) != 3 {
		errs = append(errs, fmt.Errorf("%w: font_color needs 3 components, got %d", ErrInvalid, len(c.FontColor)))
	} else {
		for i, v := range c.FontColor {
			if v < 0 || v > 255 {
				errs = append(errs, fmt.Errorf("%w: font_color[%d] = %d is outside 0..255", ErrInvalid, i, v))
			}
		}
	}

	if c.OutputFileName == "" {
		errs = append(errs, fmt.Errorf("%w: output_file_name is empty", ErrInvalid))
	}
	if c.RowHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: row_height must be positive, got %v", ErrInvalid, c.RowHeight))
	}
	if c.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: http_timeout is negative", ErrInvalid))
	}

	return errors.Join(errs...)
}

// EncoderOptions maps the sheet settings onto encoder options.
func (c *Config) EncoderOptions() encoder.Options {
	return encoder.Options{SheetName: c.SheetName, RowHeight: c.RowHeight}
}

// TextColor returns font_color as an opaque colour. Validate must have passed.
func (c *Config) TextColor() color.NRGBA {
	return color.NRGBA{R: uint8(c.FontColor[0]), G: uint8(c.FontColor[1]), B: uint8(c.FontColor[2]), A: 255}
}

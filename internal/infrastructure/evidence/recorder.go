// Package evidence stores what a page looked like when its load checks failed.
package evidence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/entity"
	"pagekit/internal/infrastructure/htmlclean"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var _ output.EvidencePort = (*Recorder)(nil)

type Config struct {
	Dir      string
	MaxWidth int
	Quality  int
	Clean    htmlclean.Config
}

func DefaultConfig() Config {
	return Config{
		Dir:      "evidence",
		MaxWidth: 1024,
		Quality:  75,
		Clean:    htmlclean.DefaultConfig(),
	}
}

type Recorder struct {
	cfg    Config
	runID  string
	logger output.LoggerPort
	now    func() time.Time
}

func NewRecorder(cfg Config, logger output.LoggerPort) *Recorder {
	if cfg.Dir == "" {
		cfg.Dir = "evidence"
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = 75
	}
	return &Recorder{
		cfg:    cfg,
		runID:  uuid.NewString(),
		logger: logger,
		now:    time.Now,
	}
}

func (r *Recorder) RunID() string {
	return r.runID
}

// RunDir is where this recorder writes its files.
func (r *Recorder) RunDir() string {
	return filepath.Join(r.cfg.Dir, r.runID)
}

// Capture writes <page>_<time>.jpg, .html and .json under RunDir. Parts that
// fail are skipped; their errors are joined into the returned error.
func (r *Recorder) Capture(ctx context.Context, page string, driver output.DriverPort) (*entity.PageSnapshot, error) {
	snap := &entity.PageSnapshot{
		Page:    page,
		URL:     driver.CurrentURL(),
		TakenAt: r.now(),
	}

	if err := os.MkdirAll(r.RunDir(), 0755); err != nil {
		return nil, fmt.Errorf("create evidence dir: %w", err)
	}
	base := filepath.Join(r.RunDir(), fmt.Sprintf("%s_%s", safeName(page), snap.TakenAt.Format("150405.000")))

	var errs []error

	if shot, err := driver.Screenshot(ctx); err != nil {
		errs = append(errs, fmt.Errorf("screenshot: %w", err))
	} else if shot, err = r.shrink(shot); err != nil {
		errs = append(errs, err)
	} else {
		snap.Screenshot = shot
		if err := os.WriteFile(base+".jpg", shot.Data, 0644); err != nil {
			errs = append(errs, fmt.Errorf("write screenshot: %w", err))
		}
	}

	if source, err := driver.PageSource(ctx); err != nil {
		errs = append(errs, fmt.Errorf("page source: %w", err))
	} else {
		snap.Title = htmlclean.Title(source)
		cleaned, err := htmlclean.Clean(source, r.cfg.Clean)
		if err != nil {
			errs = append(errs, err)
			cleaned = source
		}
		snap.HTML = cleaned
		if err := os.WriteFile(base+".html", []byte(cleaned), 0644); err != nil {
			errs = append(errs, fmt.Errorf("write page source: %w", err))
		}
	}

	if err := writeMeta(base+".json", snap); err != nil {
		errs = append(errs, err)
	}

	if r.logger != nil {
		r.logger.Info("evidence written", "page", page, "path", base, "run", r.runID)
	}
	return snap, errors.Join(errs...)
}

// shrink downsizes wide screenshots and re-encodes them as JPEG.
func (r *Recorder) shrink(shot *entity.Screenshot) (*entity.Screenshot, error) {
	img, _, err := image.Decode(bytes.NewReader(shot.Data))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if r.cfg.MaxWidth > 0 && img.Bounds().Dx() > r.cfg.MaxWidth {
		img = imaging.Resize(img, r.cfg.MaxWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: r.cfg.Quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

type meta struct {
	Page    string    `json:"page"`
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	TakenAt time.Time `json:"taken_at"`
	Width   int       `json:"width,omitempty"`
	Height  int       `json:"height,omitempty"`
}

func writeMeta(path string, snap *entity.PageSnapshot) error {
	m := meta{Page: snap.Page, URL: snap.URL, Title: snap.Title, TakenAt: snap.TakenAt}
	if snap.Screenshot != nil {
		m.Width, m.Height = snap.Screenshot.Width, snap.Screenshot.Height
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal evidence meta: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write evidence meta: %w", err)
	}
	return nil
}

func safeName(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
	if s == "" {
		return "page"
	}
	return s
}

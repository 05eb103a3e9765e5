// Package loader reads raw documents from a corpus folder. Supported
// inputs are plain text, markdown, HTML, and text pre-extracted from
// PDFs; one unreadable file never aborts the batch.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/iamswethaa/chatbot/internal/models"
	"github.com/iamswethaa/chatbot/internal/types"
)

type LoaderConfig struct {
	AllowedExtensions []string
	RateLimit         float64 // files per second
	OnProgress        func(name string)
}

type Loader struct {
	config  LoaderConfig
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewWithConfig(config LoaderConfig, log *zap.Logger) *Loader {
	if len(config.AllowedExtensions) == 0 {
		config.AllowedExtensions = []string{".txt", ".md", ".html"}
	}
	if config.RateLimit == 0 {
		config.RateLimit = 4.0
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Loader{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		log:     log,
	}
}

// Load reads every supported file directly under path. Files that fail
// to read or parse are logged and skipped.
func (l *Loader) Load(ctx context.Context, path string) ([]models.Document, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus folder: %w", err)
	}

	var docs []models.Document
	for _, entry := range entries {
		if entry.IsDir() || !l.supported(entry.Name()) {
			continue
		}

		if err := l.limiter.Wait(ctx); err != nil {
			return docs, err
		}

		full := filepath.Join(path, entry.Name())
		doc, err := l.loadFile(full)
		if err != nil {
			l.log.Warn("skipping unreadable file",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}
		if strings.TrimSpace(doc.Content) == "" {
			l.log.Debug("skipping empty file", zap.String("file", entry.Name()))
			continue
		}

		docs = append(docs, doc)
		if l.config.OnProgress != nil {
			l.config.OnProgress(entry.Name())
		}
	}

	return docs, nil
}

func (l *Loader) supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range l.config.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (l *Loader) loadFile(path string) (models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Document{}, err
	}

	name := filepath.Base(path)
	content := string(data)

	if strings.EqualFold(filepath.Ext(path), ".html") {
		content, err = extractHTMLText(content)
		if err != nil {
			return models.Document{}, err
		}
	}

	return models.Document{
		ID:      name,
		Name:    name,
		Path:    path,
		Content: content,
		Metadata: map[string]interface{}{
			"source": name,
		},
	}, nil
}

// extractHTMLText strips markup and returns readable text.
func extractHTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, nav, header, footer").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}
	return strings.Join(strings.Fields(text), " "), nil
}

var _ types.Loader = (*Loader)(nil)

package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	pdfparser "github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
)

// Extraction is the result of reading a document. Text is always usable
// downstream: when Degraded is set it is a placeholder describing the
// failure instead of the document's content.
type Extraction struct {
	Text     string
	Degraded bool
}

// DocumentExtractor converts text-bearing files (plain text, PDF) into
// strings. Extraction never fails hard; unreadable documents degrade to a
// placeholder so the failure shows up in the prompt instead of aborting
// the request.
type DocumentExtractor struct {
	loader *file.FileLoader
}

func NewDocumentExtractor(ctx context.Context) (*DocumentExtractor, error) {
	pdfParser, err := pdfparser.NewPDFParser(ctx, &pdfparser.Config{})
	if err != nil {
		return nil, fmt.Errorf("init pdf parser: %w", err)
	}
	extParser, err := parser.NewExtParser(ctx, &parser.ExtParserConfig{
		Parsers:        map[string]parser.Parser{".pdf": pdfParser},
		FallbackParser: parser.TextParser{},
	})
	if err != nil {
		return nil, fmt.Errorf("init ext parser: %w", err)
	}
	loader, err := file.NewFileLoader(ctx, &file.FileLoaderConfig{
		UseNameAsID: true,
		Parser:      extParser,
	})
	if err != nil {
		return nil, fmt.Errorf("init file loader: %w", err)
	}
	return &DocumentExtractor{loader: loader}, nil
}

// Extract reads the document at path and returns its text. originalName is
// the user-visible file name used in degraded placeholders.
func (e *DocumentExtractor) Extract(ctx context.Context, path, originalName string) Extraction {
	docs, err := e.loader.Load(ctx, document.Source{URI: path})
	if err != nil {
		return degraded(originalName, err)
	}
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil || doc.Content == "" {
			continue
		}
		parts = append(parts, doc.Content)
	}
	text := strings.Join(parts, "\n")
	if !utf8.ValidString(text) {
		return degraded(originalName, fmt.Errorf("content is not valid UTF-8"))
	}
	return Extraction{Text: text}
}

func degraded(name string, err error) Extraction {
	return Extraction{
		Text:     fmt.Sprintf("[could not read document %s: %v]", name, err),
		Degraded: true,
	}
}

// Package document turns uploaded CV files into plain text for analysis.
package document

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

const (
	// MinTextLength is the shortest text accepted as a CV.
	MinTextLength = 50

	binarySampleSize = 1000
	binaryThreshold  = 0.3
)

var (
	ErrUnsupported = errors.New("unsupported file type")
	ErrBinary      = errors.New("content looks binary")
	ErrTooShort    = errors.New("extracted text is too short")
)

// Extractor reads .txt, .pdf and .docx files. PDFs go through pdftotext
// when it is installed and through a pure Go reader otherwise.
type Extractor struct {
	// PDFToText is the pdftotext binary. Empty disables the external tool.
	PDFToText string
}

func New() *Extractor {
	return &Extractor{PDFToText: "pdftotext"}
}

// ExtractText uses the default extractor.
func ExtractText(ctx context.Context, path string) (string, error) {
	return New().ExtractText(ctx, path)
}

func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		text string
		err  error
	)
	switch ext {
	case ".txt", ".text", ".md":
		text, err = readPlain(path)
	case ".pdf":
		text, err = e.extractPDF(ctx, path)
	case ".docx":
		text, err = extractDOCX(path)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	if err != nil {
		return "", err
	}

	return checkText(text, path)
}

// CheckText applies the binary and length rules to text that did not come from a file.
func CheckText(text string) (string, error) {
	return checkText(text, "input")
}

func checkText(text, source string) (string, error) {
	if IsBinary(text) {
		return "", fmt.Errorf("%s: %w", source, ErrBinary)
	}
	text = strings.TrimSpace(text)
	if len([]rune(text)) < MinTextLength {
		return "", fmt.Errorf("%s: %w (%d characters, need %d)", source, ErrTooShort, len([]rune(text)), MinTextLength)
	}
	return text, nil
}

func readPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (text string, err error) {
	if e.PDFToText != "" {
		if bin, err := exec.LookPath(e.PDFToText); err == nil {
			out, err := exec.CommandContext(ctx, bin, "-layout", path, "-").Output()
			if err != nil {
				return "", fmt.Errorf("pdftotext %s: %w", path, err)
			}
			return string(out), nil
		}
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf %s: %w", path, err)
	}
	return buf.String(), nil
}

var (
	xmlTags    = regexp.MustCompile(`<[^>]+>`)
	hspaceRuns = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	lineRuns   = regexp.MustCompile(`\n\s*\n+`)
)

func extractDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open docx body: %w", err)
		}
		defer rc.Close()

		body, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("read docx body: %w", err)
		}
		return docxText(string(body)), nil
	}

	return "", fmt.Errorf("docx %s: no word/document.xml", path)
}

func docxText(xml string) string {
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	text := xmlTags.ReplaceAllString(xml, "")
	text = hspaceRuns.ReplaceAllString(text, " ")
	text = lineRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// IsBinary reports PDF or ZIP signatures and samples with many control bytes.
func IsBinary(content string) bool {
	if content == "" {
		return false
	}
	if strings.HasPrefix(content, "%PDF-") || strings.HasPrefix(content, "PK\x03\x04") {
		return true
	}

	n := min(binarySampleSize, len(content))
	control := 0
	for i := 0; i < n; i++ {
		ch := content[i]
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			control++
		}
	}
	return float64(control)/float64(n) > binaryThreshold
}

package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// VisionClient transcribes a single document image into text. Only image
// inputs use it; PDF, DOCX and TXT are read without a network call.
type VisionClient interface {
	TranscribeImage(ctx context.Context, imageData []byte, mimeType string) (string, error)
}

// NativeExtractor reads document formats directly: PDF text via
// github.com/ledongthuc/pdf, DOCX paragraphs in document order, TXT as
// verbatim UTF-8. Image formats go through the vision client when one is
// configured.
type NativeExtractor struct {
	Vision VisionClient
}

func (e *NativeExtractor) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		return extractPDF(data)
	case ".docx", ".doc":
		return extractDOCX(data)
	case ".txt":
		return extractTXT(data)
	case ".png":
		return e.transcribe(ctx, data, "image/png")
	case ".jpg", ".jpeg":
		return e.transcribe(ctx, data, "image/jpeg")
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func (e *NativeExtractor) transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	if e.Vision == nil {
		return "", fmt.Errorf("%w: image input requires a vision provider", ErrUnsupportedFormat)
	}
	text, err := e.Vision.TranscribeImage(ctx, data, mimeType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if strings.TrimSpace(buf.String()) == "" {
		// Scanned PDFs carry no text layer; those need the OCR deployment.
		return "", fmt.Errorf("%w: PDF has no text layer", ErrNoContent)
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty docx data", ErrProvider)
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%w: document.xml not found", ErrProvider)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return paragraphText(string(raw)), nil
}

// paragraphText walks the WordprocessingML body and joins paragraph text in
// document order with newlines. Character data counts only inside w:t runs;
// anything between elements is markup formatting, not document text.
func paragraphText(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	textDepth := 0
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				textDepth++
			}
		case xml.CharData:
			if textDepth > 0 {
				buf.WriteString(string(t))
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				if textDepth > 0 {
					textDepth--
				}
			case "p", "br":
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func extractTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: text file is not valid UTF-8", ErrProvider)
	}
	return string(data), nil
}

var _ TextExtractor = (*NativeExtractor)(nil)

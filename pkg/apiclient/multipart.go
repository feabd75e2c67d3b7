package apiclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultFileField = "file"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// FilePart is a single file sent as multipart/form-data.
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     io.Reader
}

// FileFromPath reads a local file into a FilePart. The content type is sniffed.
func FileFromPath(path string) (*FilePart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", path, err)
	}
	return &FilePart{
		FileName: filepath.Base(path),
		Content:  bytes.NewReader(data),
	}, nil
}

func (p *FilePart) encode() (*bytes.Buffer, string, error) {
	if p.Content == nil {
		return nil, "", errors.New("upload content is required")
	}
	if strings.TrimSpace(p.FileName) == "" {
		return nil, "", errors.New("upload file name is required")
	}
	data, err := io.ReadAll(p.Content)
	if err != nil {
		return nil, "", fmt.Errorf("read upload content: %w", err)
	}

	field := p.FieldName
	if field == "" {
		field = defaultFileField
	}
	contentType := p.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(p.FileName)))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write multipart part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

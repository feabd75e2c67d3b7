package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/smarttech/storefront/internal/storefront"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/logger"
)

// PublicPrefix is the URL path uploads are served under.
const PublicPrefix = "/static/uploads"

const tempPrefix = ".upload-"

// Service stores admin uploads on local disk, one directory per file type.
type Service interface {
	Upload(ctx context.Context, kind storefront.FileType, originalName string, content io.Reader) (storefront.FileUploadResponse, error)
	List(ctx context.Context, kind storefront.FileType) (storefront.FileList, error)
	Delete(ctx context.Context, kind storefront.FileType, filename string) (storefront.MessageResponse, error)
}

// Options configures the upload store.
type Options struct {
	Dir           string
	PublicBaseURL string
	MaxBytes      int64
}

type service struct {
	dir      string
	baseURL  string
	maxBytes int64
	logg     *logger.Logger
	newName  func() string
}

// NewService creates the per-type directories under opts.Dir.
func NewService(opts Options, logg *logger.Logger) (Service, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, fmt.Errorf("upload dir required")
	}
	for kind := range allowedTypesByKind {
		if err := os.MkdirAll(filepath.Join(opts.Dir, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		dir:      opts.Dir,
		baseURL:  strings.TrimRight(opts.PublicBaseURL, "/"),
		maxBytes: opts.MaxBytes,
		logg:     logg,
		newName:  uuid.NewString,
	}, nil
}

func (s *service) Upload(ctx context.Context, kind storefront.FileType, originalName string, content io.Reader) (storefront.FileUploadResponse, error) {
	if err := checkKind(kind); err != nil {
		return storefront.FileUploadResponse{}, err
	}
	if content == nil {
		return storefront.FileUploadResponse{}, pkgerrors.New(pkgerrors.CodeValidation, "No file uploaded")
	}

	header := make([]byte, sniffLimit)
	n, err := io.ReadFull(content, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return storefront.FileUploadResponse{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	header = header[:n]
	if n == 0 {
		return storefront.FileUploadResponse{}, pkgerrors.New(pkgerrors.CodeValidation, "Uploaded file is empty")
	}
	mtype, err := detect(kind, header)
	if err != nil {
		return storefront.FileUploadResponse{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
			fmt.Sprintf("Invalid file type. Allowed formats: %s", allowedDescription(kind)))
	}

	filename := s.newName() + mtype.Extension()
	written, err := s.write(ctx, kind, filename, io.MultiReader(bytes.NewReader(header), content))
	if err != nil {
		return storefront.FileUploadResponse{}, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"file_type": string(kind),
		"filename":  filename,
		"mime":      mtype.String(),
		"bytes":     written,
	}), "media.uploaded")

	label := "Image"
	if kind == storefront.FileTypeVideos {
		label = "Video"
	}
	return storefront.FileUploadResponse{
		Filename:         filename,
		OriginalFilename: filepath.Base(originalName),
		URL:              s.url(kind, filename),
		Message:          label + " uploaded successfully",
	}, nil
}

// write streams r into a temp file and renames it into place once complete.
func (s *service) write(ctx context.Context, kind storefront.FileType, filename string, r io.Reader) (int64, error) {
	dir := filepath.Join(s.dir, string(kind))
	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create upload file")
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	written, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: src})
	if err != nil {
		cleanup()
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store upload")
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		cleanup()
		return 0, pkgerrors.New(pkgerrors.CodeTooLarge, fmt.Sprintf("File exceeds the %d MB limit", s.maxBytes>>20))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close upload file")
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, filename)); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize upload")
	}
	return written, nil
}

func (s *service) List(ctx context.Context, kind storefront.FileType) (storefront.FileList, error) {
	if err := checkKind(kind); err != nil {
		return storefront.FileList{}, err
	}
	entries, err := os.ReadDir(filepath.Join(s.dir, string(kind)))
	if err != nil {
		return storefront.FileList{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list uploads")
	}
	files := make([]storefront.FileItem, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return storefront.FileList{}, err
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		files = append(files, storefront.FileItem{
			Filename: entry.Name(),
			Size:     info.Size(),
			URL:      s.url(kind, entry.Name()),
			Type:     kind,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return storefront.FileList{Files: files}, nil
}

func (s *service) Delete(ctx context.Context, kind storefront.FileType, filename string) (storefront.MessageResponse, error) {
	if err := checkKind(kind); err != nil {
		return storefront.MessageResponse{}, err
	}
	if !safeName(filename) {
		return storefront.MessageResponse{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid filename")
	}
	err := os.Remove(filepath.Join(s.dir, string(kind), filename))
	if errors.Is(err, fs.ErrNotExist) {
		return storefront.MessageResponse{}, pkgerrors.New(pkgerrors.CodeNotFound, "File not found")
	}
	if err != nil {
		return storefront.MessageResponse{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete upload")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"file_type": string(kind), "filename": filename}), "media.deleted")
	return storefront.MessageResponse{Message: "File deleted successfully"}, nil
}

func (s *service) url(kind storefront.FileType, filename string) string {
	return s.baseURL + path.Join(PublicPrefix, string(kind), filename)
}

func checkKind(kind storefront.FileType) error {
	if !kind.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "Invalid file type. Use 'images' or 'videos'")
	}
	return nil
}

func safeName(name string) bool {
	return name != "" && name == filepath.Base(name) && name != "." && name != ".." && !strings.HasPrefix(name, ".") &&
		!strings.ContainsAny(name, `/\`)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

package blobstore

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/namematch"
)

var allowedExt = map[string]bool{"png": true, "jpg": true, "jpeg": true, "webp": true}

// FilesystemConfig contains configuration for the filesystem blob store
type FilesystemConfig struct {
	Root string
	// URLPrefix overrides DefaultURLPrefix
	URLPrefix string
}

// Validate validates the FilesystemConfig
func (cfg *FilesystemConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if strings.TrimSpace(cfg.Root) == "" {
		return errors.InvalidArgument("root directory cannot be empty")
	}
	return nil
}

type filesystem struct {
	root   string
	prefix string
}

// NewFilesystem creates the root directory if needed
func NewFilesystem(cfg *FilesystemConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create blob root %s", cfg.Root)
	}

	prefix := cfg.URLPrefix
	if prefix == "" {
		prefix = DefaultURLPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &filesystem{root: cfg.Root, prefix: prefix}, nil
}

func (f *filesystem) Root() string {
	return f.root
}

func (f *filesystem) URLPrefix() string {
	return f.prefix
}

func (f *filesystem) Put(_ context.Context, input PutInput) (*PutOutput, error) {
	slug := namematch.Slug(input.Name)
	if slug == "" {
		return nil, errors.InvalidArgumentf("blob name %q has no usable characters", input.Name)
	}
	if len(input.Data) == 0 {
		return nil, errors.InvalidArgument("blob data cannot be empty")
	}
	ext := strings.ToLower(strings.TrimPrefix(input.Ext, "."))
	if ext == "" {
		ext = "png"
	}
	if !allowedExt[ext] {
		return nil, errors.InvalidArgumentf("unsupported image extension %q", ext)
	}

	file := slug + "." + ext
	tmp, err := os.CreateTemp(f.root, "."+file+"-*")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store %s", file)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(input.Data); err != nil {
		_ = tmp.Close()
		return nil, errors.Wrapf(err, "failed to write %s", file)
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", file)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(f.root, file)); err != nil {
		return nil, errors.Wrapf(err, "failed to store %s", file)
	}

	return &PutOutput{Path: f.prefix + file}, nil
}

func (f *filesystem) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	file, ok := f.fileFor(input.Path)
	if !ok {
		return nil, errors.NotFoundf("%s is not a stored image", input.Path)
	}

	data, err := os.ReadFile(filepath.Join(f.root, file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("%s is not a stored image", input.Path)
		}
		return nil, errors.Wrapf(err, "failed to read %s", input.Path)
	}

	contentType := mime.TypeByExtension(path.Ext(file))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &GetOutput{Data: data, ContentType: contentType}, nil
}

// fileFor maps a public path (query strings allowed) to a file name directly under root
func (f *filesystem) fileFor(public string) (string, bool) {
	if i := strings.IndexAny(public, "?#"); i >= 0 {
		public = public[:i]
	}
	if !strings.HasPrefix(public, f.prefix) {
		return "", false
	}
	file := strings.TrimPrefix(public, f.prefix)
	if file == "" || file != path.Base(file) || strings.HasPrefix(file, ".") {
		return "", false
	}
	return file, true
}

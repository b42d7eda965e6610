// Package typedfs opens, creates, links, lists and deletes files and
// directories through typed paths, optionally confined to a sandbox.
//
// All state an operation consults (the host filesystem, the sandbox policy,
// the current directory and the logger) hangs off an *FS value. An FS is not
// safe for concurrent mutation: toggling its sandbox or changing its Workdir
// while other goroutines operate on it races, exactly like changing the
// process working directory would. Every call re-queries the host; nothing is
// cached, so results may be stale as soon as they are returned.
package typedfs

import (
	"io/fs"

	"emperror.dev/errors"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/typedfs/pkg/typedfs/config"
	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
	"github.com/arthur-debert/typedfs/pkg/typedfs/filesystem"
	"github.com/arthur-debert/typedfs/pkg/typedfs/fspath"
	"github.com/arthur-debert/typedfs/pkg/typedfs/sandbox"
)

// Default values for file modes
const (
	// DefaultFileMode is the default mode for files (0644)
	DefaultFileMode fs.FileMode = 0o644
	// DefaultDirMode is the default mode for directories (0755)
	DefaultDirMode fs.FileMode = 0o755
)

// FS is the entry point for every typed filesystem operation.
type FS struct {
	fsys     filesystem.FileSystem
	sandbox  *sandbox.Policy
	wd       fspath.Workdir
	logger   zerolog.Logger
	filePerm fs.FileMode
	dirPerm  fs.FileMode
}

// Option configures an FS.
type Option func(*FS)

// WithFileSystem replaces the host filesystem.
func WithFileSystem(fsys filesystem.FileSystem) Option {
	return func(f *FS) {
		f.fsys = fsys
	}
}

// WithSandbox sets the sandbox policy consulted by write-capable operations.
func WithSandbox(policy *sandbox.Policy) Option {
	return func(f *FS) {
		f.sandbox = policy
	}
}

// WithWorkdir sets the current directory relative paths resolve against.
func WithWorkdir(wd fspath.Workdir) Option {
	return func(f *FS) {
		f.wd = wd
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *FS) {
		f.logger = logger
	}
}

// WithPermissions sets the modes used for new files and directories.
func WithPermissions(file, dir fs.FileMode) Option {
	return func(f *FS) {
		f.filePerm = file
		f.dirPerm = dir
	}
}

// New returns an FS on the OS filesystem, using the process working
// directory and no sandbox unless options say otherwise.
func New(opts ...Option) *FS {
	f := &FS{
		fsys:     filesystem.NewOSFileSystem(),
		sandbox:  sandbox.Disabled(),
		wd:       fspath.OSWorkdir{},
		logger:   DefaultLogger(),
		filePerm: DefaultFileMode,
		dirPerm:  DefaultDirMode,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.sandbox == nil {
		f.sandbox = sandbox.Disabled()
	}
	return f
}

// NewFromConfig builds an FS from cfg. Options are applied after the
// configuration and win over it.
func NewFromConfig(cfg *config.Config, opts ...Option) (*FS, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, err := LogLevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, errors.Wrap(err, "typedfs: invalid log level")
	}
	logger := DefaultLogger().Level(level)

	policy := sandbox.Disabled(sandbox.WithDenylist(cfg.Sandbox.Denylist...), sandbox.WithLogger(logger))
	if cfg.Sandbox.Enabled {
		root, err := fspath.AbsoluteDirectory(cfg.Sandbox.Root)
		if err != nil {
			return nil, errors.Wrap(err, "typedfs: invalid sandbox root")
		}
		policy.Enable(root)
	}

	base := []Option{WithLogger(logger), WithSandbox(policy)}
	return New(append(base, opts...)...), nil
}

// Sandbox returns the sandbox policy. Enabling or disabling it affects every
// later operation on f.
func (f *FS) Sandbox() *sandbox.Policy {
	return f.sandbox
}

// Workdir returns the current directory provider.
func (f *FS) Workdir() fspath.Workdir {
	return f.wd
}

// Logger returns the logger.
func (f *FS) Logger() zerolog.Logger {
	return f.logger
}

// File parses s as a file path relative to f's Workdir.
func (f *FS) File(s string) (fspath.FilePath, error) {
	return fspath.ParseFile(s, f.wd)
}

// Directory parses s as a directory path relative to f's Workdir.
func (f *FS) Directory(s string) (fspath.DirectoryPath, error) {
	return fspath.ParseDirectory(s, f.wd)
}

// Type classifies whatever currently occupies p.
func (f *FS) Type(p fspath.Path) (core.FileType, error) {
	return f.stat(p)
}

// Exists reports whether anything, including a dangling link, occupies p.
func (f *FS) Exists(p fspath.Path) bool {
	t, err := f.stat(p)
	return err == nil && t.Exists()
}

// Chdir makes dir the current directory of f's Workdir.
func (f *FS) Chdir(dir fspath.DirectoryPath) error {
	abs := dir.AbsoluteString()
	t, err := f.stat(dir)
	if err != nil {
		return err
	}
	switch {
	case !t.Exists() || t.IsDangling():
		return core.NewError(core.ErrCodeNotFound, abs, nil)
	case !t.IsDirectory():
		return core.NewError(core.ErrCodeNotDirectory, abs, nil)
	}
	if err := f.wd.Change(dir.Absolute()); err != nil {
		return errors.Wrapf(err, "typedfs: chdir %s", abs)
	}
	f.logger.Debug().Str("path", abs).Msg("changed working directory")
	return nil
}

func (f *FS) stat(p fspath.Path) (core.FileType, error) {
	abs := p.AbsoluteString()
	t, err := f.fsys.Stat(abs)
	if err != nil {
		return t, errors.Wrapf(err, "typedfs: stat %s", abs)
	}
	f.logger.Trace().Str("path", abs).Stringer("type", t).Msg("stat")
	return t, nil
}

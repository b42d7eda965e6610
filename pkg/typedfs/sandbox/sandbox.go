// Package sandbox confines write-capable operations to a root directory.
//
// The policy is an ordinary value owned by whoever builds the typedfs.FS, so
// tests and embedders can run isolated policies side by side. It is not
// synchronized; toggling it while another goroutine performs writes races.
package sandbox

import (
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
	"github.com/arthur-debert/typedfs/pkg/typedfs/fspath"
)

const maxLinkHops = 40

// Policy decides whether a path may be written.
type Policy struct {
	enabled  bool
	root     fspath.DirectoryPath
	denylist *ignore.GitIgnore
	patterns []string
	logger   zerolog.Logger
}

// Option configures a Policy.
type Option func(*Policy)

// WithDenylist rejects writes to paths under the root matching any of the
// gitignore-style patterns, evaluated relative to the root.
func WithDenylist(patterns ...string) Option {
	return func(p *Policy) {
		p.patterns = append([]string(nil), patterns...)
		if len(patterns) == 0 {
			p.denylist = nil
			return
		}
		p.denylist = ignore.CompileIgnoreLines(patterns...)
	}
}

// WithLogger sets the logger used to report rejected paths.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Policy) {
		p.logger = logger
	}
}

// New returns an enabled policy rooted at root. The root is resolved once, here.
func New(root fspath.DirectoryPath, opts ...Option) *Policy {
	p := &Policy{enabled: true, root: root.Absolute(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Disabled returns a policy that allows everything until Enable is called.
func Disabled(opts ...Option) *Policy {
	p := &Policy{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enable turns the policy on with the given root.
func (p *Policy) Enable(root fspath.DirectoryPath) {
	p.enabled = true
	p.root = root.Absolute()
}

// Disable turns the policy off. The root is kept.
func (p *Policy) Disable() {
	p.enabled = false
}

// Enabled reports whether the policy rejects anything. A nil policy is disabled.
func (p *Policy) Enabled() bool {
	return p != nil && p.enabled
}

// Root returns the sandbox root.
func (p *Policy) Root() fspath.DirectoryPath {
	return p.root
}

// Denylist returns the configured denylist patterns.
func (p *Policy) Denylist() []string {
	return append([]string(nil), p.patterns...)
}

// Verify fails with core.ErrCodeOutsideSandbox when the policy is enabled and
// path does not resolve to the root or a descendant of it, and with
// core.ErrCodeDenied when it matches the denylist. The check is lexical: it
// works on the normalized absolute path and does not follow symlinks.
func (p *Policy) Verify(path fspath.Path) error {
	if !p.Enabled() {
		return nil
	}
	abs := path.AbsoluteString()
	if abs != p.root.AbsoluteString() && !p.root.IsAParentOf(path) {
		p.logger.Warn().Str("path", abs).Str("root", p.root.AbsoluteString()).Msg("rejected path outside sandbox")
		return core.NewError(core.ErrCodeOutsideSandbox, abs, nil)
	}
	if p.denylist != nil {
		rel := strings.Join(path.AbsoluteSegments()[len(p.root.AbsoluteSegments()):], fspath.Separator)
		if rel != "" && p.denylist.MatchesPath(rel) {
			p.logger.Warn().Str("path", abs).Msg("rejected path matching sandbox denylist")
			return core.NewError(core.ErrCodeDenied, abs, nil)
		}
	}
	return nil
}

// VerifyResolved runs Verify, then evaluates the symlinks along path (up to
// its deepest existing ancestor) and checks that the real location still lies
// within the real root.
func (p *Policy) VerifyResolved(path fspath.Path) error {
	if err := p.Verify(path); err != nil || !p.Enabled() {
		return err
	}
	abs := path.AbsoluteString()
	resolved, err := evalExisting(abs)
	if err != nil {
		return errors.Wrap(err, "sandbox: failed to evaluate symlinks")
	}
	root, err := evalExisting(p.root.AbsoluteString())
	if err != nil {
		return errors.Wrap(err, "sandbox: failed to evaluate root symlinks")
	}
	if !within(resolved, root) {
		p.logger.Warn().Str("path", abs).Str("resolved", resolved).Msg("rejected path resolving outside sandbox")
		return core.NewError(core.ErrCodeOutsideSandbox, abs, nil)
	}
	return nil
}

// evalExisting resolves symlinks in the longest existing prefix of p and
// appends the rest unchanged. A dangling link is followed to its destination
// so that writing through it is judged by where the write would land.
func evalExisting(p string) (string, error) {
	var tail []string
	for hops := 0; ; {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		if info, lerr := os.Lstat(p); lerr == nil && info.Mode()&os.ModeSymlink != 0 {
			if hops++; hops > maxLinkHops {
				return "", errors.Errorf("too many levels of symbolic links: %s", p)
			}
			dest, err := os.Readlink(p)
			if err != nil {
				return "", err
			}
			if !filepath.IsAbs(dest) {
				dest = filepath.Join(filepath.Dir(p), dest)
			}
			p = filepath.Clean(dest)
			continue
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", err
		}
		tail = append([]string{filepath.Base(p)}, tail...)
		p = parent
	}
}

func within(p, root string) bool {
	if root == "/" || p == root {
		return true
	}
	return strings.HasPrefix(p, strings.TrimSuffix(root, "/")+"/")
}

package pypi

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/n-sviridenko/pyprep/pkg/errors"
	"github.com/n-sviridenko/pyprep/pkg/installer"
	"github.com/n-sviridenko/pyprep/pkg/pyenv"
)

// Installer installs PyPI packages into a directory sandbox.
//
// Install fetches the package's metadata, picks a wheel from the latest
// release, and downloads it into the sandbox's wheel directory. It
// implements both [installer.Installer] and, via [Installer.Load], the
// bootstrap [installer.Loader] path.
type Installer struct {
	client *Client
	env    *pyenv.DirEnv
}

// NewInstaller creates an installer that downloads into env.
func NewInstaller(client *Client, env *pyenv.DirEnv) *Installer {
	return &Installer{client: client, env: env}
}

// Install downloads pkg's wheel into the sandbox. The module registration
// that makes the package importable is the caller's responsibility: the
// caller knows which import name the package was resolved for.
func (i *Installer) Install(ctx context.Context, pkg string) error {
	if err := errors.ValidatePackageName(pkg); err != nil {
		return err
	}

	info, err := i.client.FetchPackage(ctx, pkg, false)
	if err != nil {
		return err
	}

	wheel, err := pickWheel(info)
	if err != nil {
		return err
	}
	return i.download(ctx, info.Name, wheel)
}

// Load is the bootstrap path: it fetches pkg like Install and additionally
// registers its module, so the support module becomes importable without
// going through the installer it is bootstrapping.
func (i *Installer) Load(ctx context.Context, pkg string) error {
	if err := i.Install(ctx, pkg); err != nil {
		return err
	}
	return i.env.Register(installer.ImportName(pkg))
}

func (i *Installer) download(ctx context.Context, pkg string, wheel Wheel) error {
	body, err := i.client.get(ctx, wheel.URL, pkg)
	if err != nil {
		return err
	}
	defer body.Close()

	dest := filepath.Join(i.env.WheelDir(), wheel.Filename)
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dest)
		return errors.Wrap(errors.ErrCodeNetwork, err, "download %s", wheel.Filename)
	}
	return f.Close()
}

// pickWheel selects the release file to download. Sandboxed runtimes can
// only load pure-Python wheels, so py3-none-any takes priority; any other
// wheel is a fallback for runtimes with their own binary support.
func pickWheel(info *PackageInfo) (Wheel, error) {
	for _, w := range info.Wheels {
		if strings.HasSuffix(w.Filename, "py3-none-any.whl") {
			return w, nil
		}
	}
	for _, w := range info.Wheels {
		if strings.HasSuffix(w.Filename, ".whl") {
			return w, nil
		}
	}
	return Wheel{}, errors.New(errors.ErrCodeUnsupported, "no wheel available for %s %s", info.Name, info.Version)
}

// Package runtime describes the Jupyter front end a notebook is launched in
// and generates the bootstrap script uv runs to start it.
package runtime

import (
	"fmt"
	"strings"

	"github.com/starford/juv/internal/apperr"
)

// Kind is a supported front end.
type Kind int

const (
	KindNotebook Kind = iota
	KindLab
	KindNbClassic
)

// Default is used when no specifier is given.
const Default = "lab"

var kindNames = map[string]Kind{
	"notebook":  KindNotebook,
	"lab":       KindLab,
	"nbclassic": KindNbClassic,
}

func (k Kind) String() string {
	switch k {
	case KindNotebook:
		return "notebook"
	case KindLab:
		return "lab"
	case KindNbClassic:
		return "nbclassic"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// InvalidSpecifierError reports a specifier whose name is not a known front end.
type InvalidSpecifierError struct {
	Input string
}

func (e *InvalidSpecifierError) Error() string {
	return "invalid runtime specifier: " + e.Input
}

func (e *InvalidSpecifierError) Unwrap() error {
	return apperr.ErrInvalidRuntime
}

// Runtime is a parsed specifier: a front end plus an optional version.
type Runtime struct {
	kind       Kind
	version    string
	hasVersion bool
}

// Parse reads name[@version] or name[==version]. The "@" form wins when
// both separators appear.
func Parse(s string) (Runtime, error) {
	name, version, hasVersion := s, "", false
	if n, v, ok := strings.Cut(s, "@"); ok {
		name, version, hasVersion = n, v, true
	} else if n, v, ok := strings.Cut(s, "=="); ok {
		name, version, hasVersion = n, v, true
	}

	kind, ok := kindNames[name]
	if !ok {
		return Runtime{}, &InvalidSpecifierError{Input: s}
	}
	return Runtime{kind: kind, version: version, hasVersion: hasVersion}, nil
}

// Kind returns the front end.
func (r Runtime) Kind() Kind { return r.kind }

// Version returns the requested version, if any.
func (r Runtime) Version() (string, bool) { return r.version, r.hasVersion }

func (r Runtime) isNotebook6() bool {
	return r.kind == KindNotebook && r.hasVersion && r.version == "6"
}

// Executable is the console script name, used as argv[0].
func (r Runtime) Executable() string {
	switch r.kind {
	case KindNotebook:
		return "jupyter-notebook"
	case KindNbClassic:
		return "jupyter-nbclassic"
	default:
		return "jupyter-lab"
	}
}

// MainImport is the module providing the front end's main function.
// Notebook 6 still ships the classic notebookapp module.
func (r Runtime) MainImport() string {
	if r.isNotebook6() {
		return "notebook.notebookapp"
	}
	switch r.kind {
	case KindNotebook:
		return "notebook.app"
	case KindNbClassic:
		return "nbclassic.notebookapp"
	default:
		return "jupyterlab.labapp"
	}
}

// PackageName is the distribution installed for the front end.
func (r Runtime) PackageName() string {
	switch r.kind {
	case KindNotebook:
		return "notebook"
	case KindNbClassic:
		return "nbclassic"
	default:
		return "jupyterlab"
	}
}

// DependencySpecifier is the value passed to uv's --with flag.
func (r Runtime) DependencySpecifier() string {
	spec := r.PackageName()
	if r.hasVersion {
		spec += "==" + r.version
	}
	// notebook 6 imports pkg_resources at startup.
	if r.isNotebook6() {
		spec += ",setuptools"
	}
	return spec
}

// String formats the runtime back into specifier form.
func (r Runtime) String() string {
	if r.hasVersion {
		return r.kind.String() + "@" + r.version
	}
	return r.kind.String()
}

package runtime

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

//go:embed static/setup.py
var setupScript string

// ManagedMarker prefixes the line a managed run script prints to stderr
// with the installed front end version.
const ManagedMarker = "JUV_MANGED="

var runTemplate = template.Must(template.New("run").Parse(`{{.Meta}}

{{.Setup}}

def run():
    import sys
    from {{.MainImport}} import main

    setup()
    {{.PrintVersion}}
    sys.argv = {{.Argv}}
    main()

if __name__ == "__main__":
    run()`))

type runScript struct {
	Meta         string
	Setup        string
	MainImport   string
	PrintVersion string
	Argv         string
}

// PrepareRunScript builds the Python program uv executes to launch path in
// this front end. meta is an inline metadata block copied verbatim to the
// top so uv installs the notebook's dependencies; it may be empty. When
// managed is set the script reports the installed version on stderr.
func (r Runtime) PrepareRunScript(path, meta string, managed bool, args []string) string {
	argv := append([]string{r.Executable(), path}, args...)

	data := runScript{
		Meta:       meta,
		Setup:      setupScript,
		MainImport: r.MainImport(),
		Argv:       pythonList(argv),
	}
	if managed {
		data.PrintVersion = fmt.Sprintf(
			`import importlib.metadata;print(%q + %q + "," + importlib.metadata.version(%q), file=sys.stderr)`,
			ManagedMarker, r.PackageName(), r.PackageName(),
		)
	}

	var sb strings.Builder
	if err := runTemplate.Execute(&sb, data); err != nil {
		// Only string fields are rendered.
		panic(fmt.Sprintf("runtime: render run script: %v", err))
	}
	return sb.String()
}

// pythonList renders a list of Python string literals. Go's quoting
// escapes are a subset of Python's.
func pythonList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// ParseManagedMarker reads a marker line printed by a managed run script.
func ParseManagedMarker(line string) (pkg, version string, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(line), ManagedMarker)
	if !found {
		return "", "", false
	}
	pkg, version, ok = strings.Cut(rest, ",")
	if !ok || pkg == "" || version == "" {
		return "", "", false
	}
	return pkg, version, true
}

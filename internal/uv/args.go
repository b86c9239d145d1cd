package uv

// RunOptions configures launching a notebook front end.
type RunOptions struct {
	With      []string
	Python    string
	NoProject bool
}

// RunArgs builds `uv run --with <runtime> -` for a bootstrap script read
// from stdin.
func RunArgs(runtimeDep string, opts RunOptions) []string {
	args := []string{"run", "--with", runtimeDep, "-"}
	if opts.NoProject {
		args = append(args, "--no-project")
	}
	if opts.Python != "" {
		args = append(args, "--python", opts.Python)
	}
	for _, w := range opts.With {
		args = append(args, "--with", w)
	}
	return args
}

// ExecOptions configures executing a notebook as a script.
type ExecOptions struct {
	Python string
	With   []string
	Quiet  bool
}

// ExecArgs builds `uv run -` for a notebook script read from stdin.
func ExecArgs(opts ExecOptions) []string {
	args := []string{"run", "-"}
	if opts.Quiet {
		args = append(args, "--quiet")
	}
	if opts.Python != "" {
		args = append(args, "--python", opts.Python)
	}
	for _, w := range opts.With {
		args = append(args, "--with", w)
	}
	return args
}

// InitScriptArgs builds `uv init --script` which writes a fresh metadata
// block to path.
func InitScriptArgs(path, python string) []string {
	args := []string{"init", "--script", path}
	if python != "" {
		args = append(args, "--python", python)
	}
	return args
}

// AddOptions configures `uv add --script`.
type AddOptions struct {
	Packages     []string
	Requirements string
	Extras       []string
	Tag          string
	Branch       string
	Rev          string
	Editable     bool
}

// AddScriptArgs builds `uv add --script` which rewrites the metadata block
// in path.
func AddScriptArgs(path string, opts AddOptions) []string {
	args := []string{"add", "--script", path}
	if opts.Editable {
		args = append(args, "--editable")
	}
	if opts.Requirements != "" {
		args = append(args, "--requirements", opts.Requirements)
	}
	if opts.Tag != "" {
		args = append(args, "--tag", opts.Tag)
	}
	if opts.Branch != "" {
		args = append(args, "--branch", opts.Branch)
	}
	if opts.Rev != "" {
		args = append(args, "--rev", opts.Rev)
	}
	for _, e := range opts.Extras {
		args = append(args, "--extra", e)
	}
	return append(args, opts.Packages...)
}

package dto

type RendererInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Kinds   []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type RenderInput struct {
	Renderer  string
	Kind      string
	OutputDir string
}

type RenderOutput struct {
	Renderer   string
	Kind       string
	JobID      string
	OutputPath string
	Stdout     string
	ExitCode   int
}

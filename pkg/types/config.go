package types

// Default values for ConversionConfig. The names follow the MDPI template
// layout the converter targets.
const (
	DefaultOutMainTex = "main.tex"
	DefaultFiguresDir = "figures"
	DefaultBibName    = "refs.bib"
	DefaultReportName = "conversion_report.md"
)

// DefaultPriorityNames lists the filenames preferred when several files in a
// tree qualify as the main document. Order matters: the first name that
// matches a candidate wins.
var DefaultPriorityNames = []string{
	"main.tex",
	"manuscript.tex",
	"paper.tex",
	"submission.tex",
	"template.tex",
}

// DefaultImageExts lists the image extensions copied into the figures directory.
var DefaultImageExts = []string{".png", ".jpg", ".jpeg", ".pdf", ".eps", ".svg"}

// DefaultBibExts lists the reference-list extensions merged into the output bibliography.
var DefaultBibExts = []string{".bib"}

// ConversionConfig holds settings for one source/template conversion run.
type ConversionConfig struct {
	// SourceDir is the root of the AMA manuscript tree.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// TemplateDir is the root of the MDPI template tree.
	TemplateDir string `json:"template_dir" yaml:"template_dir"`

	// OutDir receives the copied template, the converted main file, figures,
	// merged bibliography, and the conversion report.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// OutMainTex is the filename of the converted document under OutDir.
	OutMainTex string `json:"out_main_tex" yaml:"out_main_tex"`

	// FiguresDir is the subdirectory under OutDir that receives every image.
	FiguresDir string `json:"figures_dir" yaml:"figures_dir"`

	// BibName is the filename of the merged bibliography under OutDir.
	BibName string `json:"bib_name" yaml:"bib_name"`

	// ReportName is the filename of the Markdown conversion report under OutDir.
	ReportName string `json:"report_name" yaml:"report_name"`

	// PriorityNames overrides DefaultPriorityNames when non-empty.
	PriorityNames []string `json:"priority_names,omitempty" yaml:"priority_names,omitempty"`

	// ImageExts overrides DefaultImageExts when non-empty.
	ImageExts []string `json:"image_exts,omitempty" yaml:"image_exts,omitempty"`

	// BibExts overrides DefaultBibExts when non-empty.
	BibExts []string `json:"bib_exts,omitempty" yaml:"bib_exts,omitempty"`
}

// WithDefaults returns a copy of c with every empty field set to its default.
func (c ConversionConfig) WithDefaults() ConversionConfig {
	if c.OutMainTex == "" {
		c.OutMainTex = DefaultOutMainTex
	}
	if c.FiguresDir == "" {
		c.FiguresDir = DefaultFiguresDir
	}
	if c.BibName == "" {
		c.BibName = DefaultBibName
	}
	if c.ReportName == "" {
		c.ReportName = DefaultReportName
	}
	if len(c.PriorityNames) == 0 {
		c.PriorityNames = DefaultPriorityNames
	}
	if len(c.ImageExts) == 0 {
		c.ImageExts = DefaultImageExts
	}
	if len(c.BibExts) == 0 {
		c.BibExts = DefaultBibExts
	}
	return c
}

// CompileConfig holds settings for the optional LaTeX compile check.
type CompileConfig struct {
	// Enabled turns the compile check on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Image is the container image providing latexmk (default texlive/texlive:latest).
	Image string `json:"image" yaml:"image"`
}

// HistoryConfig holds settings for the conversion history ledger.
type HistoryConfig struct {
	// DBPath is the SQLite database file (default .texport/history.db).
	DBPath string `json:"db_path" yaml:"db_path"`

	// Disabled skips recording runs.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

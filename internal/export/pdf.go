package export

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/hirable/internal/fetch"
	"github.com/jonathan/hirable/internal/types"
)

// Renderer names
const (
	RendererRenderCV = "rendercv"
	RendererChrome   = "chrome"
)

// DefaultRenderTimeout bounds a single PDF render.
const DefaultRenderTimeout = 90 * time.Second

// Renderer turns a resume into PDF bytes.
type Renderer interface {
	RenderPDF(ctx context.Context, r *types.Resume, opts RenderCVOptions) ([]byte, error)
}

// NewRenderer returns the renderer with the given name; "" selects rendercv.
func NewRenderer(name string) (Renderer, error) {
	switch name {
	case "", RendererRenderCV:
		return &RenderCVRenderer{}, nil
	case RendererChrome:
		return &ChromeRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown PDF renderer %q (want %s or %s)", name, RendererRenderCV, RendererChrome)
}

// RenderCVRenderer renders through the rendercv CLI.
type RenderCVRenderer struct {
	// Binary defaults to "rendercv" on PATH.
	Binary  string
	Timeout time.Duration
}

// RenderPDF writes the RenderCV document to a temporary directory, runs
// `rendercv render` there, and returns the PDF it produced.
func (rr *RenderCVRenderer) RenderPDF(ctx context.Context, r *types.Resume, opts RenderCVOptions) ([]byte, error) {
	binary := rr.Binary
	if binary == "" {
		binary = "rendercv"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, &RenderError{
			Renderer: RendererRenderCV,
			Message:  binary + " not found in PATH. Install it with `pip install rendercv[full]` or use the chrome renderer",
			Cause:    err,
		}
	}

	data, err := MarshalRenderCV(r, opts)
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp("", "rendercv-*")
	if err != nil {
		return nil, &RenderError{Renderer: RendererRenderCV, Message: "failed to create temporary working directory", Cause: err}
	}
	defer os.RemoveAll(workDir)

	yamlPath := filepath.Join(workDir, "resume_CV.yaml")
	if err := os.WriteFile(yamlPath, data, 0644); err != nil {
		return nil, &RenderError{Renderer: RendererRenderCV, Message: "failed to write RenderCV input", Cause: err}
	}

	timeout := rr.Timeout
	if timeout == 0 {
		timeout = DefaultRenderTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, "render", yamlPath)
	cmd.Dir = workDir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	runErr := cmd.Run()

	pdfPath, findErr := findPDF(workDir)
	if findErr != nil || pdfPath == "" {
		return nil, &RenderError{
			Renderer:  RendererRenderCV,
			Message:   "rendercv did not produce a PDF",
			LogOutput: output.String(),
			Cause:     runErr,
		}
	}
	if runErr != nil {
		return nil, &RenderError{Renderer: RendererRenderCV, Message: "rendercv failed", LogOutput: output.String(), Cause: runErr}
	}

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, &RenderError{Renderer: RendererRenderCV, Message: "failed to read rendered PDF", Cause: err}
	}
	return pdf, nil
}

func findPDF(dir string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found, err
}

//go:embed templates/resume.html.tmpl
var templateFS embed.FS

var resumeTemplate = template.Must(template.New("resume.html.tmpl").Funcs(template.FuncMap{
	"join":    strings.Join,
	"contact": contactItems,
	"bold":    func(s string) template.HTML { return template.HTML(template.HTMLEscapeString(s)) },
}).ParseFS(templateFS, "templates/resume.html.tmpl"))

// RenderHTML renders the resume as a standalone HTML page. Keywords are set in bold
// wherever they appear in descriptive text.
func RenderHTML(r *types.Resume, keywords []string) (string, error) {
	if r == nil {
		return "", &Error{Message: "resume is nil"}
	}
	tmpl, err := resumeTemplate.Clone()
	if err != nil {
		return "", &Error{Message: "failed to clone resume template", Cause: err}
	}
	tmpl.Funcs(template.FuncMap{"bold": boldFunc(cleanKeywords(keywords))})

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Resume *types.Resume }{r}); err != nil {
		return "", &Error{Message: "failed to execute resume template", Cause: err}
	}
	return buf.String(), nil
}

func contactItems(b types.BasicInfo) []string {
	var items []string
	for _, s := range []string{b.Email, b.PhoneNumber, b.ResidenceStatus} {
		if s != "" {
			items = append(items, s)
		}
	}
	return append(items, b.Links...)
}

// boldFunc returns a template func that HTML-escapes text and wraps keyword
// matches in <strong>. Longer keywords win over their prefixes.
func boldFunc(keywords []string) func(string) template.HTML {
	if len(keywords) == 0 {
		return func(s string) template.HTML { return template.HTML(template.HTMLEscapeString(s)) }
	}
	sorted := append([]string(nil), keywords...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	alts := make([]string, 0, len(sorted))
	for _, k := range sorted {
		pattern := regexp.QuoteMeta(template.HTMLEscapeString(k))
		if isWordRune(k, true) {
			pattern = `\b` + pattern
		}
		if isWordRune(k, false) {
			pattern += `\b`
		}
		alts = append(alts, pattern)
	}
	re := regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)

	return func(s string) template.HTML {
		escaped := template.HTMLEscapeString(s)
		return template.HTML(re.ReplaceAllString(escaped, "<strong>$0</strong>"))
	}
}

func isWordRune(s string, first bool) bool {
	runes := []rune(s)
	r := runes[len(runes)-1]
	if first {
		r = runes[0]
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ChromeRenderer prints the HTML rendering of a resume to an A4 PDF with headless Chrome.
type ChromeRenderer struct {
	Timeout time.Duration
}

// RenderPDF renders the resume HTML and prints it with chromedp.
func (cr *ChromeRenderer) RenderPDF(ctx context.Context, r *types.Resume, opts RenderCVOptions) ([]byte, error) {
	html, err := RenderHTML(r, opts.BoldKeywords)
	if err != nil {
		return nil, err
	}

	timeout := cr.Timeout
	if timeout == 0 {
		timeout = DefaultRenderTimeout
	}
	browserCtx, cancel := fetch.NewBrowser(ctx, timeout)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Renderer: RendererChrome, Message: "failed to print PDF", Cause: err}
	}
	return pdf, nil
}

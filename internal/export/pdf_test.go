package export

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)
	assert.IsType(t, &RenderCVRenderer{}, r)

	r, err = NewRenderer(RendererChrome)
	require.NoError(t, err)
	assert.IsType(t, &ChromeRenderer{}, r)

	_, err = NewRenderer("latex")
	assert.Error(t, err)
}

func TestRenderHTML(t *testing.T) {
	r := janeResume(t)
	r.Experience[0].Descriptions = append(r.Experience[0].Descriptions, "Wrote <script> tags & Python tooling")

	html, err := RenderHTML(r, []string{"Kubernetes", "python"})
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Jane Doe</h1>")
	assert.Contains(t, html, "Maintained <strong>Kubernetes</strong> clusters")
	assert.Contains(t, html, "Wrote &lt;script&gt; tags &amp; <strong>Python</strong> tooling")
	assert.Contains(t, html, "<strong>Languages:</strong> Python, Go")
	assert.Contains(t, html, "Employee of the Year 2022")
	assert.NotContains(t, html, "<h2>Publications</h2>")
}

func TestBoldFunc_WordBoundaries(t *testing.T) {
	bold := boldFunc([]string{"Go", "C++"})

	assert.Equal(t, "<strong>Go</strong> and Google", string(bold("Go and Google")))
	assert.Equal(t, "Modern <strong>C++</strong>.", string(bold("Modern C++.")))
	assert.Equal(t, "a &lt;b&gt;", string(boldFunc(nil)("a <b>")))
}

func TestRenderCVRenderer_MissingBinary(t *testing.T) {
	rr := &RenderCVRenderer{Binary: "rendercv-definitely-not-installed"}

	_, err := rr.RenderPDF(context.Background(), janeResume(t), RenderCVOptions{})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, RendererRenderCV, renderErr.Renderer)
}

func TestRenderCVRenderer_FakeBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	// stands in for rendercv: checks its input and writes a PDF where rendercv would
	script := `#!/bin/sh
[ "$1" = "render" ] || exit 2
grep -q "theme: sb2nov" "$2" || exit 3
mkdir -p rendercv_output
printf '%%PDF-1.4 fake' > rendercv_output/Jane_Doe_CV.pdf
`
	bin := filepath.Join(t.TempDir(), "rendercv")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0755))

	pdf, err := (&RenderCVRenderer{Binary: bin}).RenderPDF(context.Background(), janeResume(t), RenderCVOptions{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(pdf))
}

func TestRenderCVRenderer_NoOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "rendercv")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho 'phone number is invalid' >&2\nexit 1\n"), 0755))

	_, err := (&RenderCVRenderer{Binary: bin}).RenderPDF(context.Background(), janeResume(t), RenderCVOptions{})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, renderErr.LogOutput, "phone number is invalid")
}

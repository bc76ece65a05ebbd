package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
	"github.com/Simplici0/b2b-catalog/internal/config"
	"github.com/Simplici0/b2b-catalog/internal/money"
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func products() []catalog.Product {
	return []catalog.Product{
		{ID: "1", Name: "Cup A", Category: "Mugs", Hit: true, RRP: 150,
			Prices: catalog.Tiers{UpTo200: 100, From200: 90, From500: 80, Container: 70},
			Economy: catalog.Tiers{UpTo200: 5, From200: 10}},
		{ID: "2", Name: "Plate B", Category: "Plates",
			Prices: catalog.Tiers{UpTo200: 50, From200: 45, From500: 45, Container: 45}},
		{ID: "3", Name: "Mug C", Category: "Mugs",
			Prices: catalog.Tiers{UpTo200: 30}},
	}
}

// textEncoder writes a terse outline of the document.
type textEncoder struct{}

func (textEncoder) Encode(w io.Writer, doc Document) error {
	_, err := fmt.Fprintf(w, "%s|%s|%d", doc.Title, doc.Subtitle, len(doc.Sections))
	return err
}

type failingEncoder struct{}

func (failingEncoder) Encode(w io.Writer, _ Document) error {
	_, _ = io.WriteString(w, "partial")
	return errors.New("template exploded")
}

type failingFacility struct{ err error }

func (f failingFacility) Rasterize(context.Context, string, Options) (Artifact, error) {
	return Artifact{}, f.err
}

// blockingFacility waits until release is closed, reporting when it starts.
type blockingFacility struct {
	started chan struct{}
	release chan struct{}
}

func (f blockingFacility) Rasterize(ctx context.Context, input string, opts Options) (Artifact, error) {
	close(f.started)
	<-f.release
	return HTMLFacility{}.Rasterize(ctx, input, opts)
}

func stagedFiles(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestBuildDocument(t *testing.T) {
	doc := BuildDocument(products(), fixedNow, money.RUB())

	assert.Equal(t, Title, doc.Title)
	assert.Equal(t, "Актуально на: 18.10.2026 · 3 товаров", doc.Subtitle)
	assert.Equal(t, 3, doc.Total)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Mugs", doc.Sections[0].Title)
	require.Len(t, doc.Sections[0].Blocks, 2)
	assert.Equal(t, "Mug C", doc.Sections[0].Blocks[1].Name)
	assert.Equal(t, "Plates", doc.Sections[1].Title)

	cup := doc.Sections[0].Blocks[0]
	assert.True(t, cup.Hit)
	assert.Equal(t, money.RUB().Format(150), cup.RRP)
	require.Len(t, cup.Rows, 4)
	assert.Equal(t, "—", cup.Rows[0].Economy)
	assert.Equal(t, "-10%", cup.Rows[1].Economy)
	assert.Equal(t, money.RUB().Format(70)+BestMark, cup.Rows[3].Price)
	assert.True(t, cup.Rows[3].Best)

	plate := doc.Sections[1].Blocks[0]
	assert.Empty(t, plate.RRP)
	for i, r := range plate.Rows {
		assert.Equal(t, i > 0, r.Best, r.Label)
	}

	mug := doc.Sections[0].Blocks[1]
	assert.Equal(t, "—", mug.Rows[1].Price, "absent tier renders as placeholder")
	assert.True(t, mug.Rows[0].Best)
}

func TestExportSuccessRemovesStagedDocument(t *testing.T) {
	dir := t.TempDir()
	e := New(TempStage{Dir: dir}, textEncoder{}, HTMLFacility{}, DefaultOptions(), WithClock(func() time.Time { return fixedNow }))

	res, err := e.Export(context.Background(), products())
	require.NoError(t, err)

	assert.Equal(t, "B2B_Wholesale_Catalog.html", res.Filename)
	assert.Equal(t, "text/html; charset=utf-8", res.ContentType)
	assert.Equal(t, "Оптовый каталог|Актуально на: 18.10.2026 · 3 товаров|2", string(res.Body))
	assert.Equal(t, 2, res.Sections)
	assert.Equal(t, 3, res.Products)
	assert.NotEmpty(t, res.RunID.String())
	assert.Empty(t, stagedFiles(t, dir))
	assert.False(t, e.Busy())
}

func TestExportFailureRemovesStagedDocument(t *testing.T) {
	dir := t.TempDir()
	cause := errors.New("rasterizer crashed")
	e := New(TempStage{Dir: dir}, textEncoder{}, failingFacility{err: cause}, DefaultOptions())

	_, err := e.Export(context.Background(), products())

	require.ErrorIs(t, err, cause)
	var exportErr *Error
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, Notice, exportErr.Notice())
	assert.Empty(t, stagedFiles(t, dir))
	assert.False(t, e.Busy())

	// the exporter stays usable after a failure
	e.facility = HTMLFacility{}
	_, err = e.Export(context.Background(), products())
	require.NoError(t, err)
}

func TestExportEncodeFailureLeavesNothingBehind(t *testing.T) {
	dir := t.TempDir()
	e := New(TempStage{Dir: dir}, failingEncoder{}, HTMLFacility{}, DefaultOptions())

	_, err := e.Export(context.Background(), products())

	var exportErr *Error
	require.ErrorAs(t, err, &exportErr)
	assert.Empty(t, stagedFiles(t, dir))
}

func TestExportRejectsConcurrentRuns(t *testing.T) {
	dir := t.TempDir()
	facility := blockingFacility{started: make(chan struct{}), release: make(chan struct{})}
	e := New(TempStage{Dir: dir}, textEncoder{}, facility, DefaultOptions())

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = e.Export(context.Background(), products())
	}()

	<-facility.started
	assert.True(t, e.Busy())
	_, err := e.Export(context.Background(), products())
	require.ErrorIs(t, err, ErrInProgress)

	close(facility.release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.False(t, e.Busy())
	assert.Empty(t, stagedFiles(t, dir))
}

func TestCommandFacility(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(input, []byte("<p>catalog</p>"), 0o600))

	t.Run("CopiesOutput", func(t *testing.T) {
		c := CommandFacility{Command: "sh", Args: []string{"-c", "cat {input} > {output}; echo {pageSize}-{marginTop} >> {output}"}}

		art, err := c.Rasterize(context.Background(), input, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, "<p>catalog</p>a4-10\n", string(art.Body))
		assert.Equal(t, "application/pdf", art.ContentType)
		assert.NoFileExists(t, filepath.Join(dir, "doc.pdf"))
	})

	t.Run("ReportsFailure", func(t *testing.T) {
		c := CommandFacility{Command: "sh", Args: []string{"-c", "echo broken >&2; exit 3"}}

		_, err := c.Rasterize(context.Background(), input, DefaultOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})
}

func TestParseCommand(t *testing.T) {
	c, err := ParseCommand("wkhtmltopdf --page-size {pageSize} {input} {output}")
	require.NoError(t, err)
	assert.Equal(t, "wkhtmltopdf", c.Command)
	assert.Equal(t, []string{"--page-size", "{pageSize}", "{input}", "{output}"}, c.Args)

	_, err = ParseCommand("   ")
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	o := DefaultOptions()
	assert.True(t, o.AvoidBreaks())
	assert.Equal(t, "B2B_Wholesale_Catalog.html", o.FilenameWithExt(".html"))

	o.PageBreak = []string{"css"}
	o.Filename = ""
	assert.False(t, o.AvoidBreaks())
	assert.Equal(t, "B2B_Wholesale_Catalog.pdf", o.FilenameWithExt(".pdf"))
}

func TestFromConfig(t *testing.T) {
	c := config.Export{
		Command:      "wkhtmltopdf {input} {output}",
		PageSize:     "a3",
		Orientation:  "landscape",
		MarginMM:     []int{5},
		ImageQuality: 0.8,
		Scale:        1,
		Filename:     "catalog.pdf",
	}

	opts := OptionsFromConfig(c)
	assert.Equal(t, [4]int{5, 5, 5, 5}, opts.MarginsMM)
	assert.Equal(t, "a3", opts.PageSize)
	assert.Equal(t, "catalog.html", opts.FilenameWithExt(".html"))

	f, err := FacilityFromConfig(c)
	require.NoError(t, err)
	assert.Equal(t, CommandFacility{Command: "wkhtmltopdf", Args: []string{"{input}", "{output}"}}, f)

	c.Command = ""
	f, err = FacilityFromConfig(c)
	require.NoError(t, err)
	assert.Equal(t, HTMLFacility{}, f)
}

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Artifact is the downloadable output of a facility.
type Artifact struct {
	Body        []byte
	ContentType string
	Ext         string
}

// Facility turns a staged document into a downloadable artifact. It may fail at any time.
type Facility interface {
	Rasterize(ctx context.Context, input string, opts Options) (Artifact, error)
}

// HTMLFacility hands out the print-ready document itself.
type HTMLFacility struct{}

func (HTMLFacility) Rasterize(ctx context.Context, input string, _ Options) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	body, err := os.ReadFile(input)
	if err != nil {
		return Artifact{}, fmt.Errorf("read staged document: %w", err)
	}
	return Artifact{Body: body, ContentType: "text/html; charset=utf-8", Ext: ".html"}, nil
}

// CommandFacility runs an external HTML to PDF converter.
//
// Args may reference {input}, {output}, {pageSize}, {orientation}, {marginTop}, {marginRight},
// {marginBottom}, {marginLeft}, {quality} and {scale}.
type CommandFacility struct {
	Command string
	Args    []string
}

// ParseCommand splits a configured command line into a CommandFacility.
func ParseCommand(line string) (CommandFacility, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return CommandFacility{}, errors.New("empty export command")
	}
	return CommandFacility{Command: fields[0], Args: fields[1:]}, nil
}

func (c CommandFacility) Rasterize(ctx context.Context, input string, opts Options) (Artifact, error) {
	output := strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
	defer os.Remove(output)

	r := strings.NewReplacer(
		"{input}", input,
		"{output}", output,
		"{pageSize}", opts.PageSize,
		"{orientation}", opts.Orientation,
		"{marginTop}", strconv.Itoa(opts.MarginsMM[0]),
		"{marginRight}", strconv.Itoa(opts.MarginsMM[1]),
		"{marginBottom}", strconv.Itoa(opts.MarginsMM[2]),
		"{marginLeft}", strconv.Itoa(opts.MarginsMM[3]),
		"{quality}", strconv.Itoa(int(opts.ImageQuality*100)),
		"{scale}", strconv.FormatFloat(opts.Scale, 'f', -1, 64),
	)
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = r.Replace(a)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Command, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Artifact{}, fmt.Errorf("run %s: %w: %s", c.Command, err, strings.TrimSpace(stderr.String()))
	}

	body, err := os.ReadFile(output)
	if err != nil {
		return Artifact{}, fmt.Errorf("read converter output: %w", err)
	}
	return Artifact{Body: body, ContentType: "application/pdf", Ext: ".pdf"}, nil
}

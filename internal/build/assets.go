package build

import (
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
)

var placeholderColors = []string{
	"#8D6E63", "#78909C", "#FFA726", "#66BB6A",
	"#42A5F5", "#A1887F", "#EF5350", "#AB47BC",
}

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300">
  <rect width="400" height="300" fill="%s"/>
  <rect x="150" y="60" width="100" height="100" rx="16" fill="rgba(255,255,255,0.15)"/>
  <text x="200" y="125" text-anchor="middle" font-size="48" fill="rgba(255,255,255,0.35)" font-family="Arial">&#128230;</text>
  <text x="200" y="240" text-anchor="middle" font-size="22" font-weight="600" fill="#fff" font-family="Arial,sans-serif">%s</text>
</svg>
`

const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[1]d">
  <rect width="%[1]d" height="%[1]d" rx="%[2]d" fill="#F57C00"/>
  <text x="%[3]d" y="%[4]d" font-size="%[5]d" font-weight="700" fill="#fff" font-family="Arial,sans-serif">B2B</text>
</svg>
`

// IconSizes are the square app icon sizes referenced by the web manifest.
var IconSizes = []int{192, 512}

// WritePlaceholders creates a labelled placeholder for every local product image that does
// not exist yet under dir. Existing files are never overwritten.
func WritePlaceholders(dir string, products []catalog.Product) (int, error) {
	written := 0
	for i, p := range products {
		rel, ok := localImage(p.Image)
		if !ok {
			continue
		}
		path := filepath.Join(dir, rel)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return written, fmt.Errorf("stat image %s: %w", rel, err)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("create image directory: %w", err)
		}
		color := placeholderColors[i%len(placeholderColors)]
		svg := fmt.Sprintf(placeholderSVG, color, html.EscapeString(p.Name))
		if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
			return written, fmt.Errorf("write placeholder %s: %w", rel, err)
		}
		written++
	}
	return written, nil
}

func localImage(image string) (string, bool) {
	if image == "" || strings.Contains(image, "://") || strings.HasPrefix(image, "data:") {
		return "", false
	}
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(image, "/")))
	if rel == "." || !filepath.IsLocal(rel) {
		return "", false
	}
	return rel, true
}

// WriteIcons writes icon-<size>.svg files into dir.
func WriteIcons(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create icon directory: %w", err)
	}
	for _, size := range IconSizes {
		svg := fmt.Sprintf(iconSVG, size, size/10, size*11/100, size*66/100, size*42/100)
		path := filepath.Join(dir, fmt.Sprintf("icon-%d.svg", size))
		if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
			return fmt.Errorf("write icon %d: %w", size, err)
		}
	}
	return nil
}

package depict

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrNotSVG is returned when the input has no <svg> root element.
	ErrNotSVG = errors.New("no svg root element")
	// ErrNoBackground is returned when the SVG has no background <rect>.
	ErrNoBackground = errors.New("no background rect")

	prologRe  = regexp.MustCompile(`^\s*<\?xml[^>]*\?>\s*`)
	svgRootRe = regexp.MustCompile(`<svg\b[^>]*>`)
	tagRe     = regexp.MustCompile(`<(/?)([A-Za-z_][\w:.-]*)[^>]*>`)
	styleRe   = regexp.MustCompile(`style=(['"])([^'"]*)(['"])`)
)

// rootAttrs are restored on the root so that browsers render the file standalone.
var rootAttrs = [][2]string{
	{"version", "1.1"},
	{"xmlns", "http://www.w3.org/2000/svg"},
	{"xmlns:rdkit", "http://www.rdkit.org/xml"},
	{"xmlns:xlink", "http://www.w3.org/1999/xlink"},
}

// TransparentSVG turns the white background rectangle of an SVG drawing
// into fill:none and restores the root namespace attributes.
func TransparentSVG(svg string) (string, error) {
	body := prologRe.ReplaceAllString(svg, "")
	loc := svgRootRe.FindStringIndex(body)
	if loc == nil {
		return "", ErrNotSVG
	}
	root := body[loc[0]:loc[1]]
	for _, kv := range rootAttrs {
		root = setAttr(root, kv[0], kv[1])
	}

	rest := body[loc[1]:]
	rloc := topLevelRect(rest)
	if rloc == nil {
		return "", ErrNoBackground
	}
	rect := rest[rloc[0]:rloc[1]]
	rect = styleRe.ReplaceAllStringFunc(rect, func(attr string) string {
		return strings.ReplaceAll(attr, "#FFFFFF", "none")
	})

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sb.WriteString(body[:loc[0]])
	sb.WriteString(root)
	sb.WriteString(rest[:rloc[0]])
	sb.WriteString(rect)
	sb.WriteString(rest[rloc[1]:])
	return strings.TrimSpace(sb.String()), nil
}

// topLevelRect locates the first <rect> that is a direct child of the root,
// given the document text that follows the root's opening tag.
func topLevelRect(body string) []int {
	depth := 0
	for _, m := range tagRe.FindAllStringSubmatchIndex(body, -1) {
		tag := body[m[0]:m[1]]
		if m[3] > m[2] {
			depth--
			if depth < 0 {
				return nil
			}
			continue
		}
		if depth == 0 && body[m[4]:m[5]] == "rect" {
			return m[:2]
		}
		if !strings.HasSuffix(tag, "/>") {
			depth++
		}
	}
	return nil
}

// setAttr sets name='value' on an opening tag, replacing an existing value.
func setAttr(tag, name, value string) string {
	re := regexp.MustCompile(`\s` + regexp.QuoteMeta(name) + `=(['"])[^'"]*(['"])`)
	attr := " " + name + "='" + value + "'"
	if re.MatchString(tag) {
		return re.ReplaceAllLiteralString(tag, attr)
	}
	end := strings.LastIndex(tag, ">")
	if strings.HasSuffix(tag, "/>") {
		end = len(tag) - 2
	}
	return tag[:end] + attr + tag[end:]
}

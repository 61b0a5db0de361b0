package asset

import (
	"context"
	"fmt"
	"strings"
)

// LinkMode selects how an asset is referenced from an HTML document.
type LinkMode int

const (
	// LinkEmbed always inlines the content into the tag.
	LinkEmbed LinkMode = 0
	// LinkEmbedLocal inlines local assets; remote assets stay a reference
	// to their own URL.
	LinkEmbedLocal LinkMode = 1
	// LinkRef always references the asset via the path template.
	LinkRef LinkMode = 2
	// LinkAuto (the default) references remote assets by their own URL and
	// local assets via the path template.
	LinkAuto LinkMode = 3
)

// HTML returns a standalone inclusion tag for this asset.
//
// The path template may contain "{}" as a placeholder for the asset name,
// e.g. "/static/{}". Embedding modes materialize the content, so this can
// perform a fetch for remote assets.
func (a *Asset) HTML(ctx context.Context, path string, mode LinkMode) (string, error) {
	return renderTag(ctx, a, a.url, path, mode)
}

// renderTag builds the tag for any provider. url is non-empty for remote
// assets only.
func renderTag(ctx context.Context, p Provider, url, path string, mode LinkMode) (string, error) {
	name := p.Name()
	path = strings.ReplaceAll(path, "{}", name)
	remote := url != ""

	if isJS(name) {
		switch {
		case remote && (mode == LinkEmbedLocal || mode == LinkAuto):
			return fmt.Sprintf("<script src='%s' id='%s'></script>", url, name), nil
		case mode == LinkEmbed || mode == LinkEmbedLocal:
			code, err := p.Content(ctx)
			if err != nil {
				return "", err
			}
			sep := tagSep(code)
			return fmt.Sprintf("<script id='%s'>%s%s%s</script>", name, sep, code, sep), nil
		default:
			return fmt.Sprintf("<script src='%s' id='%s'></script>", path, name), nil
		}
	}

	switch {
	case remote && (mode == LinkEmbedLocal || mode == LinkAuto):
		return fmt.Sprintf("<link rel='stylesheet' type='text/css' href='%s' id='%s' />", url, name), nil
	case mode == LinkEmbed || mode == LinkEmbedLocal:
		code, err := p.Content(ctx)
		if err != nil {
			return "", err
		}
		sep := tagSep(code)
		return fmt.Sprintf("<style id='%s'>%s%s%s</style>", name, sep, code, sep), nil
	default:
		return fmt.Sprintf("<link rel='stylesheet' type='text/css' href='%s' id='%s' />", path, name), nil
	}
}

// tagSep keeps one-line content on one line but gives multi-line content
// its own block inside the tag.
func tagSep(code string) string {
	if strings.Contains(code, "\n") {
		return "\n"
	}
	return ""
}

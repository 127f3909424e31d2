package finalize

import (
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// assetAttrs lists, per element, the attribute holding an asset reference.
var assetAttrs = map[string]string{
	"script": "src",
	"link":   "href",
	"img":    "src",
	"source": "src",
}

// AssetRefs returns the local asset paths referenced by an HTML document,
// deduplicated and in document order. External URLs, protocol-relative URLs,
// data URIs and fragments are skipped.
func AssetRefs(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var refs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := assetAttrs[n.Data]; ok {
				for _, a := range n.Attr {
					if a.Key != attr {
						continue
					}
					if ref, ok := localRef(a.Val); ok && !slices.Contains(refs, ref) {
						refs = append(refs, ref)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs, nil
}

func localRef(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "#") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if p == "" {
		return "", false
	}
	return p, true
}

// MissingAssets lists the asset references of the HTML file at docPath that
// do not exist under root.
func MissingAssets(docPath, root string) ([]string, error) {
	f, err := os.Open(docPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	refs, err := AssetRefs(f)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, ref := range refs {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(ref)))
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, ref)
		default:
			return nil, err
		}
	}
	return missing, nil
}

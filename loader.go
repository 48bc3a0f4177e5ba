package canopy

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png" // actor pages
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// ErrNotFound is returned by an AssetSource for a path it does not have.
var ErrNotFound = errors.New("canopy: asset not found")

// Asset directories, relative to the source root.
const (
	ActorDir = "flare"
	FontDir  = "font"
)

// AssetSource opens asset files by slash-separated path. Implementations
// must be safe for concurrent use.
type AssetSource interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FSSource serves assets from an fs.FS.
type FSSource struct {
	FS fs.FS
}

// DirSource serves assets from a directory on disk.
func DirSource(root string) FSSource {
	return FSSource{FS: os.DirFS(root)}
}

func (s FSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.FS.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("canopy: open %s: %w", name, err)
	}
	return f, nil
}

// HTTPSource fetches assets relative to a base URL.
type HTTPSource struct {
	BaseURL string
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

func (s HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	u, err := url.JoinPath(s.BaseURL, strings.Split(name, "/")...)
	if err != nil {
		return nil, fmt.Errorf("canopy: asset url %s: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("canopy: asset request %s: %w", name, err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("canopy: fetch %s: %w", name, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, fmt.Errorf("canopy: fetch %s: %s", name, resp.Status)
	}
	return resp.Body, nil
}

func readAsset(ctx context.Context, src AssetSource, name string) ([]byte, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("canopy: read %s: %w", name, err)
	}
	return data, nil
}

// LoadActorFrom loads the actor document at ActorDir/name and its page
// images, which are resolved relative to the document.
func LoadActorFrom(ctx context.Context, src AssetSource, name string) (*Actor, error) {
	docPath := path.Join(ActorDir, name)
	data, err := readAsset(ctx, src, docPath)
	if err != nil {
		return nil, err
	}
	pageNames, err := ActorPageNames(data)
	if err != nil {
		return nil, err
	}
	dir := path.Dir(docPath)
	pages := make([]image.Image, len(pageNames))
	for i, pn := range pageNames {
		rc, err := src.Open(ctx, path.Join(dir, pn))
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("canopy: decode page %s: %w", pn, err)
		}
		pages[i] = img
	}
	return LoadActor(data, pages)
}

// LoadTypefaceFrom loads and parses the font at FontDir/name.
func LoadTypefaceFrom(ctx context.Context, src AssetSource, name string) (*text.GoTextFaceSource, error) {
	data, err := readAsset(ctx, src, path.Join(FontDir, name))
	if err != nil {
		return nil, err
	}
	return ParseTypeface(data)
}

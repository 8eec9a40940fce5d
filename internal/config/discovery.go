package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/hanpama/supergraph/internal/federation"
)

type SubgraphMetadata struct {
	Name string
	URL  string
	// Location names where the SDL comes from, for error messages.
	Location string
}

// Discovery lists subgraphs and reads their SDL.
type Discovery interface {
	ListMetadata(ctx context.Context) ([]*SubgraphMetadata, error)
	ReadSubgraphSDL(ctx context.Context, name string) (string, error)
}

// ReadAll reads every subgraph listed by d, in listing order.
func ReadAll(ctx context.Context, d Discovery) ([]federation.Subgraph, error) {
	metas, err := d.ListMetadata(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]federation.Subgraph, 0, len(metas))
	for _, meta := range metas {
		sdl, err := d.ReadSubgraphSDL(ctx, meta.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, federation.Subgraph{Name: meta.Name, URL: meta.URL, SDL: sdl})
	}
	return out, nil
}

type FileSubgraph struct {
	Name string
	URL  string
	Path string
}

// FileDiscovery serves an explicit list of schema files.
type FileDiscovery struct {
	files []FileSubgraph
}

func NewFileDiscovery(files ...FileSubgraph) *FileDiscovery {
	return &FileDiscovery{files: files}
}

func (d *FileDiscovery) ListMetadata(ctx context.Context) ([]*SubgraphMetadata, error) {
	metas := make([]*SubgraphMetadata, len(d.files))
	for i, f := range d.files {
		metas[i] = &SubgraphMetadata{Name: f.Name, URL: f.URL, Location: f.Path}
	}
	return metas, nil
}

func (d *FileDiscovery) ReadSubgraphSDL(ctx context.Context, name string) (string, error) {
	for _, f := range d.files {
		if f.Name == name {
			content, err := os.ReadFile(f.Path)
			if err != nil {
				return "", errors.Wrapf(err, "read schema of subgraph %q", name)
			}
			return string(content), nil
		}
	}
	return "", errors.Errorf("subgraph %q not found", name)
}

// NewDirDiscovery walks root for *.graphql files. Each file is one subgraph
// named after the file without its extension.
func NewDirDiscovery(ctx context.Context, root string) (*FileDiscovery, error) {
	var files []FileSubgraph
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ".graphql" {
			return nil
		}
		files = append(files, FileSubgraph{
			Name: strings.TrimSuffix(d.Name(), ".graphql"),
			Path: path,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk subgraph directory %s", root)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return NewFileDiscovery(files...), nil
}

// InMemoryDiscovery serves SDL held in memory.
type InMemoryDiscovery struct {
	metas []*SubgraphMetadata
	sdl   map[string]string
}

func NewInMemoryDiscovery() *InMemoryDiscovery {
	return &InMemoryDiscovery{sdl: make(map[string]string)}
}

// Add registers a subgraph. A later Add with the same name replaces the SDL
// but keeps the original position.
func (d *InMemoryDiscovery) Add(name, url, sdl string) {
	if _, ok := d.sdl[name]; !ok {
		d.metas = append(d.metas, &SubgraphMetadata{Name: name, URL: url, Location: "memory"})
	}
	d.sdl[name] = sdl
}

func (d *InMemoryDiscovery) ListMetadata(ctx context.Context) ([]*SubgraphMetadata, error) {
	return append([]*SubgraphMetadata(nil), d.metas...), nil
}

func (d *InMemoryDiscovery) ReadSubgraphSDL(ctx context.Context, name string) (string, error) {
	sdl, ok := d.sdl[name]
	if !ok {
		return "", errors.Errorf("subgraph %q not found", name)
	}
	return sdl, nil
}

type chained []Discovery

func chain(ds []Discovery) Discovery {
	if len(ds) == 1 {
		return ds[0]
	}
	return chained(ds)
}

func (c chained) ListMetadata(ctx context.Context) ([]*SubgraphMetadata, error) {
	var out []*SubgraphMetadata
	for _, d := range c {
		metas, err := d.ListMetadata(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, metas...)
	}
	return out, nil
}

// ReadSubgraphSDL reads from the first source listing name. Duplicate names
// are left for composition to report.
func (c chained) ReadSubgraphSDL(ctx context.Context, name string) (string, error) {
	for _, d := range c {
		metas, err := d.ListMetadata(ctx)
		if err != nil {
			return "", err
		}
		for _, m := range metas {
			if m.Name == name {
				return d.ReadSubgraphSDL(ctx, name)
			}
		}
	}
	return "", errors.Errorf("subgraph %q not found", name)
}

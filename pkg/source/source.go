// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Schemes understood by Parse
const (
	SchemeFile   = "file"
	SchemeHTTP   = "http"
	SchemeGitHub = "github"
)

// 📍 Location addresses one markup document
type Location struct {
	Scheme string
	Repo   string // owner/repo, github only
	Ref    string // branch, tag or sha, github only; empty means default branch
	Path   string // file path, URL, or path inside the repository
}

// String returns the location in the form Parse accepts
func (l Location) String() string {
	switch l.Scheme {
	case SchemeGitHub:
		ref := ""
		if l.Ref != "" {
			ref = "@" + l.Ref
		}
		return fmt.Sprintf("github:%s%s:%s", l.Repo, ref, l.Path)
	default:
		return l.Path
	}
}

// 🔍 Parse reads a document reference:
//
//	docs/topic.html
//	https://example.com/topic.html
//	github:owner/repo@ref:path/to/topic.html
func Parse(ref string) (Location, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Location{}, errors.Errorf("document reference is empty")
	}

	switch {
	case strings.HasPrefix(ref, "github:"):
		rest := strings.TrimPrefix(ref, "github:")
		repoRef, path, ok := strings.Cut(rest, ":")
		if !ok || path == "" {
			return Location{}, errors.Errorf("invalid github reference %q: missing path", ref)
		}
		repo, gitRef, _ := strings.Cut(repoRef, "@")
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return Location{}, errors.Errorf("invalid github reference %q: want owner/repo", ref)
		}
		return Location{Scheme: SchemeGitHub, Repo: repo, Ref: gitRef, Path: strings.TrimPrefix(path, "/")}, nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return Location{Scheme: SchemeHTTP, Path: ref}, nil
	default:
		return Location{Scheme: SchemeFile, Path: strings.TrimPrefix(ref, "file://")}, nil
	}
}

// 🔌 Source fetches the raw bytes of a document
type Source interface {
	Fetch(ctx context.Context, loc Location) ([]byte, error)
}

// 🏭 Factory creates a new source
type Factory func(ctx context.Context) (Source, error)

var (
	mu sync.RWMutex
	// 🗺️ sources maps schemes to factories
	sources = make(map[string]Factory)
)

// 📝 Register registers a source factory for a scheme
func Register(scheme string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	sources[scheme] = factory
}

// 🎯 Get returns the factory for a scheme
func Get(scheme string) Factory {
	mu.RLock()
	defer mu.RUnlock()
	return sources[scheme]
}

// 📥 Read parses ref and fetches it with the registered source
func Read(ctx context.Context, ref string) ([]byte, Location, error) {
	loc, err := Parse(ref)
	if err != nil {
		return nil, Location{}, err
	}

	factory := Get(loc.Scheme)
	if factory == nil {
		return nil, loc, errors.Errorf("no source registered for scheme %q", loc.Scheme)
	}

	src, err := factory(ctx)
	if err != nil {
		return nil, loc, errors.Errorf("creating %s source: %w", loc.Scheme, err)
	}

	data, err := src.Fetch(ctx, loc)
	if err != nil {
		return nil, loc, errors.Errorf("fetching %s: %w", loc, err)
	}

	zerolog.Ctx(ctx).Debug().Str("location", loc.String()).Int("bytes", len(data)).Msg("document fetched")
	return data, loc, nil
}

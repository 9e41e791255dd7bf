// Package file stores each collection as <dir>/<key>.json.
//
// Single-key writes go through a temp file and a rename, so a collection is
// either the old text or the new text. PutAll stages every temp file first,
// then swaps them in one by one, keeping the previous files aside so a failed
// swap can be rolled back. A crash in the middle of the swap can still leave
// a mix; on a local filesystem that window is a handful of renames.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/MrJamesThe3rd/fintrack/internal/fault"
	"github.com/MrJamesThe3rd/fintrack/internal/kv"
)

type Backend struct {
	dir string
}

func New(dir string) (*Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	return &Backend{dir: dir}, nil
}

func (b *Backend) path(key kv.Key) string {
	return filepath.Join(b.dir, string(key)+".json")
}

func (b *Backend) Get(_ context.Context, key kv.Key) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fault.ErrNotFound
	}

	if err != nil {
		return nil, fault.Storage("reading "+string(key), err)
	}

	return data, nil
}

func (b *Backend) Put(ctx context.Context, key kv.Key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := b.stage(key, value)
	if err != nil {
		return fault.Storage("writing "+string(key), err)
	}

	if err := os.Rename(tmp, b.path(key)); err != nil {
		_ = os.Remove(tmp)
		return fault.Storage("writing "+string(key), err)
	}

	return nil
}

func (b *Backend) stage(key kv.Key, value []byte) (string, error) {
	f, err := os.CreateTemp(b.dir, string(key)+".*.tmp")
	if err != nil {
		return "", err
	}

	if _, err := f.Write(value); err != nil {
		f.Close()
		os.Remove(f.Name())

		return "", err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())

		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}

type swap struct {
	key    kv.Key
	tmp    string
	backup string
	done   bool
}

func (b *Backend) PutAll(ctx context.Context, values map[kv.Key][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keys := make([]kv.Key, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	swaps := make([]*swap, 0, len(keys))

	cleanup := func() {
		for _, s := range swaps {
			if !s.done {
				os.Remove(s.tmp)
			}
		}
	}

	for _, k := range keys {
		tmp, err := b.stage(k, values[k])
		if err != nil {
			cleanup()
			return fault.Storage("staging "+string(k), err)
		}

		swaps = append(swaps, &swap{key: k, tmp: tmp})
	}

	for _, s := range swaps {
		if err := b.swapIn(s); err != nil {
			b.rollback(swaps)
			cleanup()

			return fault.Storage("committing "+string(s.key), err)
		}
	}

	for _, s := range swaps {
		if s.backup != "" {
			os.Remove(s.backup)
		}
	}

	return nil
}

func (b *Backend) swapIn(s *swap) error {
	target := b.path(s.key)

	if _, err := os.Stat(target); err == nil {
		s.backup = target + ".bak"
		if err := os.Rename(target, s.backup); err != nil {
			s.backup = ""
			return err
		}
	}

	if err := os.Rename(s.tmp, target); err != nil {
		return err
	}

	s.done = true

	return nil
}

func (b *Backend) rollback(swaps []*swap) {
	for _, s := range swaps {
		target := b.path(s.key)

		if s.done {
			os.Remove(target)
		}

		if s.backup != "" {
			os.Rename(s.backup, target)
		}
	}
}

func (b *Backend) Close() error {
	return nil
}

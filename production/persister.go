package production

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/comalice/scenenav"
	"github.com/comalice/scenenav/bundle"
)

// FilePersister stores saved navigator state as one file per id, encoded
// with a bundle codec.
type FilePersister struct {
	dir   string
	codec *bundle.Codec
}

// NewFilePersister creates a FilePersister, ensuring the directory exists.
func NewFilePersister(dir string, codec *bundle.Codec) (*FilePersister, error) {
	if codec == nil {
		return nil, errors.New("nil codec")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &FilePersister{dir: dir, codec: codec}, nil
}

// Path returns the file used for id.
func (p *FilePersister) Path(id string) string {
	return filepath.Join(p.dir, id+"."+string(p.codec.Format()))
}

// Save writes state under id.
func (p *FilePersister) Save(ctx context.Context, id string, state *scenenav.SavedState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := p.codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("save %q: %w", id, err)
	}
	fn := p.Path(id)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

// Load reads the state saved under id. A missing file is reported with an
// error wrapping os.ErrNotExist.
func (p *FilePersister) Load(ctx context.Context, id string) (*scenenav.SavedState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fn := p.Path(id)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("state %q: %w", id, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	state, err := p.codec.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", id, err)
	}
	return state, nil
}

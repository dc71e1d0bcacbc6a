package driver

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"poet/internal/codeblock"
	"poet/internal/emit"
	"poet/internal/filespec"
	"poet/internal/project"
)

// Bump when Entry or the fingerprint encoding changes.
const cacheSchemaVersion uint16 = 1

// Cache stores rendered files by content key. Implementations are safe for
// concurrent use. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key project.Digest) (*Entry, bool, error)
	Put(ctx context.Context, key project.Digest, e *Entry) error
}

// Entry is one cached render.
type Entry struct {
	Schema  uint16
	Path    string
	Text    string
	Imports []string
}

// optionsPrint and fingerprint are the msgpack-encoded shapes hashed into a
// cache key.
type optionsPrint struct {
	Schema      uint16
	Indent      string
	ColumnLimit int
	Collision   string
}

type fingerprint struct {
	Package string
	Name    string
	Imports []string
	Comment blockPrint
	Members []blockPrint
}

type blockPrint struct {
	Format string
	Args   []argPrint
}

type argPrint struct {
	Kind  string
	Value string
	Block *blockPrint `msgpack:",omitempty"`
}

// errUncacheable marks names resolved through an allocator at emission time;
// their output depends on state outside the file.
var errUncacheable = errors.New("file is not cacheable")

// Key returns the cache key of f rendered with opt. ok is false for files
// whose output cannot be derived from their description alone.
func Key(f filespec.File, opt emit.Options) (key project.Digest, ok bool, err error) {
	if opt.Allocator != nil && opt.Collision == emit.Alias {
		return key, false, nil
	}
	fp := fingerprint{
		Package: f.Package,
		Name:    f.Name,
		Imports: f.Imports().Strings(),
	}
	if fp.Comment, err = printBlock(f.Comment()); err != nil {
		return key, false, nil
	}
	for _, m := range f.Members() {
		bp, err := printBlock(m)
		if err != nil {
			return key, false, nil
		}
		fp.Members = append(fp.Members, bp)
	}
	data, err := msgpack.Marshal(&fp)
	if err != nil {
		return key, false, fmt.Errorf("encode cache key: %w", err)
	}
	optData, err := msgpack.Marshal(&optionsPrint{
		Schema:      cacheSchemaVersion,
		Indent:      opt.Indent,
		ColumnLimit: opt.ColumnLimit,
		Collision:   opt.Collision.String(),
	})
	if err != nil {
		return key, false, fmt.Errorf("encode cache key: %w", err)
	}
	return project.Combine(project.Sum(data), project.Sum(optData)), true, nil
}

func printBlock(b codeblock.Block) (blockPrint, error) {
	bp := blockPrint{Format: b.Format()}
	for _, arg := range b.Args() {
		ap, err := printArg(arg)
		if err != nil {
			return blockPrint{}, err
		}
		bp.Args = append(bp.Args, ap)
	}
	return bp, nil
}

func printArg(arg codeblock.Arg) (argPrint, error) {
	switch a := arg.(type) {
	case codeblock.LitArg:
		return argPrint{Kind: fmt.Sprintf("lit:%T", a.Value), Value: fmt.Sprint(a.Value)}, nil
	case codeblock.BlockArg:
		nested, err := printBlock(a.Block)
		if err != nil {
			return argPrint{}, err
		}
		return argPrint{Kind: "block", Block: &nested}, nil
	case codeblock.NameArg:
		if a.Lookup != nil {
			return argPrint{}, errUncacheable
		}
		return argPrint{Kind: "name", Value: a.Name}, nil
	case codeblock.StrArg:
		if a.Null {
			return argPrint{Kind: "null"}, nil
		}
		return argPrint{Kind: "string", Value: a.Value}, nil
	case codeblock.TypeArg:
		return argPrint{Kind: "type", Value: a.Type.String()}, nil
	case codeblock.MemberArg:
		return argPrint{Kind: "member", Value: a.Member.String()}, nil
	default:
		return argPrint{}, errUncacheable
	}
}

// DiskCache keeps entries as msgpack files, one per key.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache opens $XDG_CACHE_HOME/app, falling back to ~/.cache/app.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir is the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put writes e through a temp file and an atomic rename.
func (c *DiskCache) Put(_ context.Context, key project.Digest, e *Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	e.Schema = cacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(e); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the entry for key. Entries from another schema are misses.
func (c *DiskCache) Get(_ context.Context, key project.Digest) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, false, err
	}
	if e.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &e, true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "files"))
}

package repo

import (
	"strings"

	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/index"
	"github.com/magicrepos/magicrepos/objstore"
	"golang.org/x/xerrors"
)

// BuildTree groups index entries by top-level path component and
// recursively builds tree objects, returning the root tree's id.
// Direct children become Regular-mode entries; each subdirectory
// recurses and produces one Directory-mode entry.
func (r *Repository) BuildTree(entries []index.Entry) (hash.Oid, error) {
	return r.buildTreeLevel(entries, "")
}

func (r *Repository) buildTreeLevel(entries []index.Entry, prefix string) (hash.Oid, error) {
	type group struct {
		isDir    bool
		id       hash.Oid
		children []index.Entry
	}
	groups := map[string]*group{}
	var order []string

	for _, e := range entries {
		rel := strings.TrimPrefix(e.Path, prefix)
		slash := strings.IndexByte(rel, '/')
		if slash < 0 {
			groups[rel] = &group{id: e.Digest}
			order = append(order, rel)
			continue
		}
		name := rel[:slash]
		g, ok := groups[name]
		if !ok {
			g = &group{isDir: true}
			groups[name] = g
			order = append(order, name)
		}
		g.isDir = true
		g.children = append(g.children, e)
	}

	entriesOut := make([]objstore.TreeEntry, 0, len(order))
	for _, name := range order {
		g := groups[name]
		if !g.isDir {
			entriesOut = append(entriesOut, objstore.TreeEntry{Name: name, Mode: objstore.ModeFile, ID: g.id})
			continue
		}
		childID, err := r.buildTreeLevel(g.children, prefix+name+"/")
		if err != nil {
			return hash.NullOid, err
		}
		entriesOut = append(entriesOut, objstore.TreeEntry{Name: name, Mode: objstore.ModeDirectory, ID: childID})
	}

	tree := objstore.NewTree(entriesOut)
	obj := tree.ToObject()
	id, err := r.Objects.Put(obj.Type, obj.Content)
	if err != nil {
		return hash.NullOid, xerrors.Errorf("could not store tree: %w", err)
	}
	return id, nil
}

// TreeFile is one entry of a flattened tree: its full path and blob
// id. Non-directory entries are emitted as leaves whether or not
// their mode is Regular — executables and symlinks are reconstituted
// as regular files, a known simplification of checkout.
type TreeFile struct {
	Path string
	ID   hash.Oid
}

// ReadTreeRecursive expands treeID depth-first into a flat list of
// (path, blob_id) pairs.
func (r *Repository) ReadTreeRecursive(treeID hash.Oid) ([]TreeFile, error) {
	var out []TreeFile
	if err := r.readTreeInto(treeID, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) readTreeInto(treeID hash.Oid, prefix string, out *[]TreeFile) error {
	typ, content, err := r.Objects.Read(treeID)
	if err != nil {
		return xerrors.Errorf("could not read tree %s: %w", treeID, err)
	}
	if typ != objstore.TypeTree {
		return xerrors.Errorf("object %s is not a tree", treeID)
	}
	tree, err := objstore.TreeFromObject(objstore.New(typ, content))
	if err != nil {
		return err
	}

	for _, e := range tree.Entries() {
		p := e.Name
		if prefix != "" {
			p = prefix + "/" + p
		}
		if e.Mode == objstore.ModeDirectory {
			if err := r.readTreeInto(e.ID, p, out); err != nil {
				return err
			}
			continue
		}
		*out = append(*out, TreeFile{Path: p, ID: e.ID})
	}
	return nil
}

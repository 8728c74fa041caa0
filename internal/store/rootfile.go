package store

import (
	"fmt"
	"strings"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"
)

// RootStore adapts a ROOT file to the Store interface via groot.
type RootStore struct {
	f *riofs.File
}

// OpenRoot opens a ROOT file for reading.
func OpenRoot(path string) (*RootStore, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open root file %s: %w", path, err)
	}
	return &RootStore{f: f}, nil
}

// Keys implements Store. Directories are walked recursively so nested trees
// such as "simulation/shower/shower_info" appear with their full path.
func (s *RootStore) Keys() []string {
	var out []string
	collectKeys(s.f, "", &out)
	return out
}

func collectKeys(dir riofs.Directory, prefix string, out *[]string) {
	for _, k := range dir.Keys() {
		name := k.Name()
		if prefix != "" {
			name = prefix + "/" + name
		}
		if obj, err := k.Object(); err == nil {
			if sub, ok := obj.(riofs.Directory); ok {
				collectKeys(sub, name, out)
				continue
			}
		}
		*out = append(*out, fmt.Sprintf("%s;%d", name, k.Cycle()))
	}
}

// SubKeys implements Store. For a tree this is the slash-joined branch
// hierarchy.
func (s *RootStore) SubKeys(table string) ([]string, error) {
	t, err := s.tree(table)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, b := range t.Branches() {
		branchNames(b, "", &names)
	}
	return names, nil
}

func branchNames(b rtree.Branch, prefix string, out *[]string) {
	name := b.Name()
	if prefix != "" {
		name = prefix + "/" + name
	}
	*out = append(*out, name)
	for _, sb := range b.Branches() {
		branchNames(sb, name, out)
	}
}

// ReadColumn implements Store. The branch type is not known up front, so a
// fixed ladder of candidate shapes is tried; the first one the reader
// accepts wins. Scalar cells widen to float64, array cells to ragged
// float64 rows.
func (s *RootStore) ReadColumn(table, entry string) (*Column, error) {
	t, err := s.tree(table)
	if err != nil {
		return nil, err
	}
	// ReadVar names address the leaf branch, not the slash path.
	name := entry
	if i := strings.LastIndexByte(entry, '/'); i >= 0 {
		name = entry[i+1:]
	}

	readers := []func(rtree.Tree, string) (*Column, error){
		readScalar[float64], readScalar[float32],
		readScalar[int64], readScalar[int32], readScalar[uint32], readScalar[int16],
		readRagged[float64], readRagged[float32], readRagged[int32], readRagged[uint16],
	}
	var firstErr error
	for _, read := range readers {
		col, err := read(t, name)
		if err == nil {
			return col, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("read column %s/%s: %w", table, entry, firstErr)
}

type numeric interface {
	~float64 | ~float32 | ~int64 | ~int32 | ~int16 | ~uint32 | ~uint16
}

func readScalar[T numeric](t rtree.Tree, name string) (*Column, error) {
	var v T
	r, err := rtree.NewReader(t, []rtree.ReadVar{{Name: name, Value: &v}})
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }() // safe to ignore
	col := &Column{}
	err = r.Read(func(rtree.RCtx) error {
		col.Scalars = append(col.Scalars, float64(v))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

func readRagged[T numeric](t rtree.Tree, name string) (*Column, error) {
	var v []T
	r, err := rtree.NewReader(t, []rtree.ReadVar{{Name: name, Value: &v}})
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }() // safe to ignore
	col := &Column{Ragged: [][]float64{}}
	err = r.Read(func(rtree.RCtx) error {
		row := make([]float64, len(v))
		for i, x := range v {
			row[i] = float64(x)
		}
		col.Ragged = append(col.Ragged, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

func (s *RootStore) tree(table string) (rtree.Tree, error) {
	obj, err := riofs.Dir(s.f).Get(table)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", table, ErrNotFound)
	}
	t, ok := obj.(rtree.Tree)
	if !ok {
		return nil, fmt.Errorf("table %s is not a tree: %w", table, ErrNotFound)
	}
	return t, nil
}

// Close implements Store.
func (s *RootStore) Close() error { return s.f.Close() }

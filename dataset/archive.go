package dataset

import (
	"archive/zip"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Archive is a set of named matrices. On disk it is a zip file with one entry per matrix, each
// entry holding the matrix in gonum's binary encoding. Vectors are stored as n×1 matrices.
type Archive map[string]*mat.Dense

// ReadArchive reads every entry of the archive at path.
func ReadArchive(path string) (Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't open archive %s", path)
	}
	defer zr.Close()

	a := make(Archive, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "Couldn't open entry %q of %s", f.Name, path)
		}

		m := new(mat.Dense)
		_, err = m.UnmarshalBinaryFrom(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "Couldn't decode entry %q of %s", f.Name, path)
		}

		a[f.Name] = m
	}

	return a, nil
}

// Write saves the archive to path, replacing anything already there. Entries are written in sorted
// order so that the same Archive always produces the same file.
func (a Archive) Write(path string) error {
	names := make([]string, 0, len(a))
	for name, m := range a {
		if m == nil {
			return errors.Errorf("Can't write archive, entry %q is nil", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Couldn't create archive %s", path)
	}

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			f.Close()
			return errors.Wrapf(err, "Couldn't add entry %q to %s", name, path)
		}

		if _, err = a[name].MarshalBinaryTo(w); err != nil {
			f.Close()
			return errors.Wrapf(err, "Couldn't encode entry %q", name)
		}
	}

	if err = zw.Close(); err != nil {
		f.Close()
		return errors.Wrapf(err, "Couldn't finish archive %s", path)
	}

	return errors.Wrapf(f.Close(), "Couldn't close archive %s", path)
}

// Matrix returns the named entry, or an error if it is missing.
func (a Archive) Matrix(name string) (*mat.Dense, error) {
	m, ok := a[name]
	if !ok {
		return nil, errors.Errorf("Archive has no entry %q", name)
	}
	return m, nil
}

// Vector returns the named entry as a slice. The entry must be a single row or a single column.
func (a Archive) Vector(name string) ([]float64, error) {
	m, err := a.Matrix(name)
	if err != nil {
		return nil, err
	}

	r, c := m.Dims()
	switch {
	case c == 1:
		return mat.Col(nil, 0, m), nil
	case r == 1:
		return mat.Row(nil, 0, m), nil
	default:
		return nil, errors.Errorf("Entry %q is %dx%d, not a vector", name, r, c)
	}
}

// Column returns the values as a new n×1 matrix. It returns nil for an empty slice, since gonum
// matrices can't be empty.
func Column(vs []float64) *mat.Dense {
	if len(vs) == 0 {
		return nil
	}
	return mat.NewDense(len(vs), 1, append([]float64(nil), vs...))
}

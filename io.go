package wavenn

import (
	"os"

	"github.com/pkg/errors"

	"github.com/sevenysw/waveNN/dataset"
)

// Save writes the current values of every named parameter to an archive at path, one entry per
// parameter. If overwrite is false and path already exists, Save returns an error.
func (m *Model) Save(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return errors.Errorf("Can't save model, %s already exists and overwrite is not enabled", path)
	}

	a := make(dataset.Archive)
	for _, p := range m.Params() {
		if p.Name() == "" {
			return errors.Errorf("Can't save model, parameter %v has no name", p)
		} else if _, ok := a[p.Name()]; ok {
			return errors.Errorf("Can't save model, two parameters are named %q", p.Name())
		}

		a[p.Name()] = p.Value()
	}

	return errors.Wrap(a.Write(path), "Couldn't save model")
}

// Load replaces the Model's parameter values with those saved at path by Save. The Model must have
// the same architecture as the one that was saved. On error, no parameter is changed.
func (m *Model) Load(path string) error {
	a, err := dataset.ReadArchive(path)
	if err != nil {
		return errors.Wrap(err, "Couldn't load model")
	}

	params := m.Params()
	for _, p := range params {
		saved, err := a.Matrix(p.Name())
		if err != nil {
			return errors.Wrap(err, "Couldn't load model")
		}

		sr, sc := saved.Dims()
		pr, pc := p.Dims()
		if sr != pr || sc != pc {
			return errors.Errorf("Can't load %q, saved as %dx%d but model has %dx%d", p.Name(), sr, sc, pr, pc)
		}
	}

	if len(a) != len(params) {
		return SizeMismatchError{Name: "saved parameters", Expected: len(params), Got: len(a)}
	}

	for _, p := range params {
		p.Value().Copy(a[p.Name()])
	}

	return nil
}

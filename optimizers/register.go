package optimizers

import (
	"github.com/pkg/errors"
)

var registry = map[string]func() Optimizer{}

func init() {
	list := []func() Optimizer{
		func() Optimizer { return GradientDescent() },
		func() Optimizer { return Adam() },
		func() Optimizer { return LBFGS() },
	}

	for _, f := range list {
		if err := Register(f().TypeString(), f); err != nil {
			panic(err.Error())
		}
	}
}

// Register makes an Optimizer available to New under the given name. Each call to the constructor
// must return a fresh Optimizer, since optimizers carry state between iterations.
func Register(name string, f func() Optimizer) error {
	if f == nil {
		return errors.Errorf("Can't register optimizer %q, constructor is nil", name)
	} else if f() == nil {
		return errors.Errorf("Can't register optimizer %q, constructor returned nil", name)
	} else if _, ok := registry[name]; ok {
		return errors.Errorf("Optimizer %q is already registered", name)
	}

	registry[name] = f
	return nil
}

// New returns a fresh Optimizer with default settings, given its name.
func New(name string) (Optimizer, error) {
	f, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("Optimizer %q is not registered", name)
	}

	return f(), nil
}

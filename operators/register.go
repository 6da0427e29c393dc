package operators

import (
	"github.com/pkg/errors"

	"github.com/sevenysw/waveNN/autodiff"
)

// Activation is an elementwise nonlinearity applied between the linear layers of a network. Apply
// must be built from autodiff operations so that networks using it can be differentiated to any
// order.
type Activation interface {
	TypeString() string
	Apply(*autodiff.Node) *autodiff.Node
}

var registry = map[string]func() Activation{}

func init() {
	list := []func() Activation{
		func() Activation { return Identity() },
		func() Activation { return Tanh() },
		func() Activation { return ReLU() },
		func() Activation { return LeakyReLU(0.01) },
	}

	for _, f := range list {
		if err := Register(f().TypeString(), f); err != nil {
			panic(err)
		}
	}
}

// Register makes an Activation available to New under the given name.
func Register(name string, f func() Activation) error {
	if f == nil {
		return errors.Errorf("Can't register activation %q, constructor is nil", name)
	} else if f() == nil {
		return errors.Errorf("Can't register activation %q, constructor returned nil", name)
	} else if _, ok := registry[name]; ok {
		return errors.Errorf("Activation %q is already registered", name)
	}

	registry[name] = f
	return nil
}

// New returns the registered Activation with the given name.
func New(name string) (Activation, error) {
	f, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("Activation %q is not registered", name)
	}

	return f(), nil
}

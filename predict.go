package wavenn

import (
	"github.com/pkg/errors"
)

// Prediction holds the outputs of the Model at a set of query points. Each slice has one value per
// point.
type Prediction struct {
	U, C, F []float64

	Ut, Utt []float64
	Ux, Uxx []float64
}

// Predict evaluates the field, the coefficient, the residual and the derivatives of u at the points
// (xs[i], ts[i]), using the same evaluation as training. The parameters are not changed, so calling
// Predict twice with the same points gives the same results.
//
// Points are evaluated in batches of at most the Config's PredictBatch. Points don't affect each
// other, so the batch size does not change the results.
func (m *Model) Predict(xs, ts []float64) (*Prediction, error) {
	if err := checkSame("query times", len(xs), len(ts)); err != nil {
		return nil, err
	} else if len(xs) == 0 {
		return nil, errors.Errorf("Can't predict at zero points")
	}

	batch := m.cfg.PredictBatch
	if batch < 1 {
		batch = len(xs)
	}

	n := len(xs)
	p := &Prediction{
		U:   make([]float64, 0, n),
		C:   make([]float64, 0, n),
		F:   make([]float64, 0, n),
		Ut:  make([]float64, 0, n),
		Utt: make([]float64, 0, n),
		Ux:  make([]float64, 0, n),
		Uxx: make([]float64, 0, n),
	}

	for start := 0; start < n; start += batch {
		end := start + batch
		if end > n {
			end = n
		}

		ev, err := m.evaluate(xs[start:end], ts[start:end])
		if err != nil {
			return nil, errors.Wrapf(err, "Evaluating points %d to %d failed", start, end)
		}

		p.U = append(p.U, ev.u.Col(0)...)
		p.C = append(p.C, ev.c.Col(0)...)
		p.F = append(p.F, ev.f.Col(0)...)
		p.Ut = append(p.Ut, ev.ut.Col(0)...)
		p.Utt = append(p.Utt, ev.utt.Col(0)...)
		p.Ux = append(p.Ux, ev.ux.Col(0)...)
		p.Uxx = append(p.Uxx, ev.uxx.Col(0)...)
	}

	return p, nil
}

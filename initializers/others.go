package initializers

type leCun struct {
	*varianceScaling
}

// LeCun scales by the fan-in.
func LeCun() leCun {
	return leCun{VarianceScaling().In()}
}

func (l leCun) TypeString() string {
	return "lecun"
}

type he struct {
	*varianceScaling
}

// He scales by the fan-in with a factor of 2, suited to rectified layers.
func He() he {
	return he{VarianceScaling().In().Factor(2)}
}

func (h he) TypeString() string {
	return "he"
}

type xavier struct {
	*varianceScaling
}

// Xavier scales by the average of fan-in and fan-out, giving a standard deviation of
// sqrt(2/(fanIn+fanOut)) before truncation.
func Xavier() xavier {
	return xavier{VarianceScaling().Avg()}
}

// Glorot is another name for Xavier.
func Glorot() xavier {
	return Xavier()
}

func (x xavier) TypeString() string {
	return "xavier"
}

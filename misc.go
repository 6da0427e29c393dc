package wavenn

// Every returns a function that satisfies TrainArgs.SendStatus, reporting on every iteration that
// is a multiple of frequency. A frequency of zero or less never reports.
//
// this function is self-explanatory from viewing the source
func Every(frequency int) func(int) bool {
	if frequency <= 0 {
		return func(int) bool { return false }
	}

	return func(iteration int) bool {
		return iteration%frequency == 0
	}
}

// checkSame returns a SizeMismatchError if got differs from expected.
func checkSame(name string, expected, got int) error {
	if expected != got {
		return SizeMismatchError{Name: name, Expected: expected, Got: got}
	}
	return nil
}

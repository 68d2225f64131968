package rules

// Score computes the flat compliance score from a rule evaluation:
// passed rules over total rules, in [0,1]. Rules are unweighted. An
// empty outcome slice scores 0.0 by definition, not as an error.
func Score(outcomes []Outcome) float64 {
	if len(outcomes) == 0 {
		return 0.0
	}
	passed := 0
	for _, o := range outcomes {
		if o.OK {
			passed++
		}
	}
	return float64(passed) / float64(len(outcomes))
}

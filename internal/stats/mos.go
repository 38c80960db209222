package stats

// MOS estimates a Mean Opinion Score in [1.0, 5.0] from average latency,
// jitter and packet loss using a simplified E-model. Deterministic pure
// function so recorded and replayed sessions grade identically.
func MOS(avgLatencyMs, jitterMs, lossPct float64) float64 {
	// Jitter is weighted double and a fixed 10ms accounts for codec delay.
	effectiveLatency := avgLatencyMs + jitterMs*2 + 10

	var latencyFactor float64
	if effectiveLatency < 160 {
		latencyFactor = effectiveLatency / 40
	} else {
		latencyFactor = (effectiveLatency - 120) / 10
	}

	lossFactor := lossPct * 2.5

	r := 93.2 - latencyFactor - lossFactor
	if r < 0 {
		r = 0
	}
	if r > 100 {
		r = 100
	}

	mos := 1 + 0.035*r + r*(r-60)*(100-r)*7e-6
	if mos < 1 {
		mos = 1
	}
	if mos > 5 {
		mos = 5
	}
	return mos
}

// MOSScore derives the quality score from the target's all-time averages.
func (s *TargetStats) MOSScore() (float64, bool) {
	avg, ok := s.allTime.Average()
	if !ok {
		return 0, false
	}
	var jitterMs float64
	if j, ok := s.Jitter(); ok {
		jitterMs = durationToMillis(j)
	}
	return MOS(durationToMillis(avg), jitterMs, s.PacketLoss()), true
}

// QualityGrade maps the MOS score onto a letter grade with a description.
func (s *TargetStats) QualityGrade() (grade, description string, ok bool) {
	mos, ok := s.MOSScore()
	if !ok {
		return "", "", false
	}
	switch {
	case mos >= 4.3:
		return "A", "Excellent", true
	case mos >= 4.0:
		return "B", "Good", true
	case mos >= 3.6:
		return "C", "Fair", true
	case mos >= 3.1:
		return "D", "Poor", true
	default:
		return "F", "Bad", true
	}
}

package casefile

// Merge overlays saved local edits onto freshly derived cases. For each
// fresh case with a saved counterpart of the same id, the saved status,
// progress, doctor, alerts, timestamps, and notes replace the derived ones
// unconditionally (an empty saved note is a deliberate clear, not an
// absence). Saved cases whose analysis no longer exists are dropped. The
// result preserves the fresh input order, and merging a previous merge
// output with itself changes nothing.
func Merge(fresh, saved []Case) []Case {
	if len(saved) == 0 {
		return fresh
	}
	byID := make(map[string]Case, len(saved))
	for _, c := range saved {
		byID[c.ID] = c
	}

	merged := make([]Case, len(fresh))
	for i, f := range fresh {
		s, ok := byID[f.ID]
		if !ok {
			merged[i] = f
			continue
		}
		f.Status = s.Status
		f.TreatmentProgress = s.TreatmentProgress
		f.AssignedDoctor = s.AssignedDoctor
		f.Alerts = s.Alerts
		f.LastUpdate = s.LastUpdate
		f.NextAppointment = s.NextAppointment
		f.Notes = s.Notes
		merged[i] = f
	}
	return merged
}

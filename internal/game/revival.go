package game

// processRevivals counts down the shared birth timer and brings back the
// pursuer that has waited longest when it runs out.
func (r *Round) processRevivals() {
	if len(r.revival) == 0 {
		return
	}

	r.birth--
	if r.birth > 0 {
		return
	}

	id := r.revival[0]
	r.revival = r.revival[1:]
	r.pursuers[id].Revive(r.world)
	r.birth = r.rules.BirthDelayTicks
}

// RevivalQueue returns the ids of eliminated pursuers in revival order.
func (r *Round) RevivalQueue() []int {
	return append([]int(nil), r.revival...)
}

// BirthCountdown returns the ticks left before the next revival.
func (r *Round) BirthCountdown() int {
	return r.birth
}

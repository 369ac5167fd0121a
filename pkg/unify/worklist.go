package unify

import (
	"github.com/vito/unify/pkg/term"
)

// Add queues an equation.
func (u *Unifier) Add(eq Equation) {
	u.queue = append(u.queue, &pending{eq: eq})
}

// Run processes queued equations until none is left, waking deferred
// equations whenever a metavariable they wait on is solved. It stops at the
// first failure. Equations still deferred at the fixed point are left in
// Pending.
func (u *Unifier) Run() error {
	for len(u.queue) > 0 {
		p := u.queue[0]
		u.queue = u.queue[1:]

		res := u.Step(p.eq)
		u.logger.Debug("step", "equation", p.eq.String(), "outcome", res.Outcome.String())

		switch res.Outcome {
		case Solved:
		case Simplified:
			// new equations go first, so one definition's decomposition
			// finishes before unrelated work resumes
			next := make([]*pending, 0, len(res.Equations)+len(u.queue))
			for _, eq := range res.Equations {
				next = append(next, &pending{eq: eq})
			}
			u.queue = append(next, u.queue...)
		case Deferred:
			u.park(p, res.Blockers)
		case Failed:
			u.logger.Debug("fail", "equation", p.eq.String(), "error", res.Err.Error())
			return res.Err
		}
	}
	return nil
}

// Unify adds lhs = rhs and runs the worklist.
func (u *Unifier) Unify(lhs, rhs term.Term, ctx term.Context) error {
	u.Add(Equation{LHS: lhs, RHS: rhs, Context: ctx})
	return u.Run()
}

// Pending returns the deferred equations, in the order they were deferred.
func (u *Unifier) Pending() []Equation {
	var out []Equation
	for _, p := range u.parked {
		if p.parked {
			out = append(out, p.eq)
		}
	}
	return out
}

// Blockers returns the metavariables the deferred equations wait on.
func (u *Unifier) Blockers() term.MetaSet {
	set := term.NewMetaSet()
	for _, p := range u.parked {
		if p.parked {
			set = set.Union(p.blockers)
		}
	}
	return set
}

func (u *Unifier) park(p *pending, blockers term.MetaSet) {
	p.blockers = blockers
	if !p.parked {
		p.parked = true
		u.parked = append(u.parked, p)
	}
	for id := range blockers {
		u.blocked[id] = append(u.blocked[id], p)
	}
	u.logger.Debug("defer", "equation", p.eq.String(), "blockers", idList(blockers.ToSlice()))
}

// wake requeues the equations waiting on id.
func (u *Unifier) wake(id term.MetaID) {
	waiting := u.blocked[id]
	delete(u.blocked, id)
	for _, p := range waiting {
		if !p.parked {
			continue
		}
		if u.opts.MaxPasses > 0 && u.wakes >= u.opts.MaxPasses {
			u.logger.Warn("wake limit reached", "limit", u.opts.MaxPasses, "equation", p.eq.String())
			continue
		}
		u.wakes++
		p.parked = false
		u.queue = append(u.queue, p)
		u.logger.Debug("wake", "meta", id.String(), "equation", p.eq.String())
	}
	u.compact()
}

func (u *Unifier) compact() {
	kept := u.parked[:0]
	for _, p := range u.parked {
		if p.parked {
			kept = append(kept, p)
		}
	}
	u.parked = kept
}

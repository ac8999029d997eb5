package hcp

import (
	"math"
	"sync"

	"go.viam.com/hcplanner/internal/logging"
	"go.viam.com/hcplanner/spatial"
)

// inPoolDedupThreshold is the hard-coded threshold renewAndAnalyze uses
// to dedup TEBs already in the pool, distinct from the configured
// h_signature_threshold used everywhere else. Both are preserved
// deliberately; see DESIGN.md.
const inPoolDedupThreshold = 0.1

type poolEntry struct {
	teb TEB
	h   HSignature
}

// Pool is the ordered collection of active TEBs and their cached
// H-signatures, plus a non-owning best-TEB selection slot. Each TEB is
// owned by exactly one pool slot; pruning releases it, and bestTeb never
// becomes a second owner.
type Pool struct {
	mu      sync.Mutex
	cfg     *Config
	logger  logging.Logger
	entries []poolEntry
	best    int // index into entries, -1 if none selected
}

// NewPool constructs an empty candidate pool.
func NewPool(cfg *Config, logger logging.Logger) *Pool {
	return &Pool{cfg: cfg, logger: logger, best: -1}
}

// Len returns the current number of pool members.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// TEBs returns a snapshot slice of the pool's current TEB handles, safe
// for the optimizer driver to fan out over without holding the pool lock.
func (p *Pool) TEBs() []TEB {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]TEB, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.teb
	}
	return out
}

// RegisterAndSpawn implements the path enumerator's "registerIfNovel,
// then spawn a TEB on acceptance" step as a single atomic pool operation:
// it scans the current H-signature list, and only if h is not equivalent
// to any existing member's signature does it call spawn and insert the
// result. This merges the spec's two-step registerIfNovel/spawn contract
// into one call so a spawn failure never leaves an orphaned signature in
// the pool (see DESIGN.md Open Questions).
func (p *Pool) RegisterAndSpawn(h HSignature, spawn func() (TEB, error)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.entries) >= p.cfg.MaxNumberClasses {
		return nil
	}
	for _, e := range p.entries {
		if h.Equivalent(e.h, p.cfg.HSignatureThreshold) {
			return nil
		}
	}

	teb, err := spawn()
	if err != nil {
		return err
	}
	p.entries = append(p.entries, poolEntry{teb: teb, h: h})
	return nil
}

// RenewAndAnalyze is called at the start of each planning cycle. It
// clears the signature list, prunes detours (if requested) and
// degenerate TEBs, recomputes each survivor's H-signature, deduplicates
// within the pool, and re-registers the survivors' signatures. The order
// of these steps is a contract: the work list is built before dedup so
// cost comparisons reflect the previous cycle's optimization state, and
// the signature list is reset so obstacle motion can legitimately
// reassign classes.
func (p *Pool) RenewAndAnalyze(obstacles []spatial.Obstacle, deleteDetours bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cosHeadingThreshold := math.Cos(p.cfg.ObstacleHeadingThreshold)

	type work struct {
		teb TEB
		h   HSignature
	}
	var worklist []work

	for _, e := range p.entries {
		if deleteDetours && len(p.entries) > 1 && e.teb.DetectDetoursBackwards(cosHeadingThreshold) {
			p.logger.Debugw("renewAndAnalyze: pruning detour TEB")
			continue
		}

		if isDegenerate(e.teb, obstacles, p.cfg.DegeneracyThreshold) {
			p.logger.Debugw("renewAndAnalyze: pruning degenerate TEB")
			continue
		}

		points := make([]spatial.Point2, 0)
		for _, pose := range e.teb.Poses() {
			points = append(points, pose.Position())
		}
		h := ComputeHSignature(points, obstacles, p.cfg.HSignaturePrescaler)
		worklist = append(worklist, work{teb: e.teb, h: h})
	}

	removed := make([]bool, len(worklist))
	for i := range worklist {
		if removed[i] {
			continue
		}
		for j := i + 1; j < len(worklist); j++ {
			if removed[j] {
				continue
			}
			if !worklist[i].h.Equivalent(worklist[j].h, inPoolDedupThreshold) {
				continue
			}
			if sumCost(worklist[i].teb) <= sumCost(worklist[j].teb) {
				removed[j] = true
			} else {
				removed[i] = true
				break
			}
		}
	}

	var newEntries []poolEntry
	var sigs []HSignature
	for i, w := range worklist {
		if removed[i] {
			continue
		}
		novel := true
		for _, s := range sigs {
			if w.h.Equivalent(s, p.cfg.HSignatureThreshold) {
				novel = false
				break
			}
		}
		if !novel {
			// Invariant violation per the candidate pool's design notes:
			// after in-pool dedup, no two survivors should still be
			// equivalent under the long-term threshold. Log and drop.
			p.logger.Warnw("renewAndAnalyze: duplicate H-signature on reinsert, dropping")
			continue
		}
		sigs = append(sigs, w.h)
		newEntries = append(newEntries, poolEntry{teb: w.teb, h: w.h})
	}

	p.entries = newEntries
	p.best = -1
}

// UpdateAll re-anchors every TEB's boundary conditions and, if startVel
// is present, its start velocity. goalVel carries the free_goal_vel
// plumbing (see SPEC_FULL.md §12): when non-nil the goal's velocity
// boundary condition is left unconstrained instead of forced to zero.
func (p *Pool) UpdateAll(start, goal *spatial.PoseSE2, goalVel *spatial.Velocity2, startVel *spatial.Velocity2) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		e.teb.UpdateAndPrune(start, goal, goalVel)
		if startVel != nil {
			e.teb.SetStartVelocity(*startVel)
		}
	}
}

// SelectBest performs a linear scan for the minimum-cost TEB, stores it
// as the pool's best selection, and returns it.
func (p *Pool) SelectBest() (TEB, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.entries) == 0 {
		p.best = -1
		return nil, false
	}
	bestIdx := 0
	bestCost := sumCost(p.entries[0].teb)
	for i := 1; i < len(p.entries); i++ {
		c := sumCost(p.entries[i].teb)
		if c < bestCost {
			bestCost = c
			bestIdx = i
		}
	}
	p.best = bestIdx
	return p.entries[bestIdx].teb, true
}

// Best returns the pool's current best-TEB selection, a non-owning
// reference into the pool. It never returns a TEB that isn't also a
// current pool member.
func (p *Pool) Best() (TEB, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.best < 0 || p.best >= len(p.entries) {
		return nil, false
	}
	return p.entries[p.best].teb, true
}

// PruneDetours erases every TEB whose DetectDetoursBackwards holds under
// cosThreshold, provided at least one other TEB remains; it never erases
// the pool down to zero members.
func (p *Pool) PruneDetours(cosThreshold float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.entries) == 0 {
		return
	}

	flagged := make([]bool, len(p.entries))
	numFlagged := 0
	for i, e := range p.entries {
		if e.teb.DetectDetoursBackwards(cosThreshold) {
			flagged[i] = true
			numFlagged++
		}
	}
	if numFlagged == 0 || numFlagged == len(p.entries) {
		return
	}

	var kept []poolEntry
	for i, e := range p.entries {
		if !flagged[i] {
			kept = append(kept, e)
		}
	}
	p.entries = kept
	p.best = -1
}

func isDegenerate(teb TEB, obstacles []spatial.Obstacle, threshold float64) bool {
	poses := teb.Poses()
	if len(poses) == 0 {
		return false
	}
	for _, obs := range obstacles {
		idx := teb.ClosestPoseIndexTo(obs.Centroid())
		if idx < 0 || idx >= len(poses) {
			continue
		}
		if obs.MinDistanceTo(poses[idx].Position()) < threshold {
			return true
		}
	}
	return false
}

func sumCost(teb TEB) float64 {
	var total float64
	for _, c := range teb.CurrentCost() {
		total += c
	}
	return total
}

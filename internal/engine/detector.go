package engine

import (
	"github.com/vovakirdan/arcade-motion/internal/core"
)

// pairRule is a registered kind pair. Primary is the entity the resolver
// acts on; Other is what it collided with.
type pairRule struct {
	Primary Kind
	Other   Kind
}

// supportedPairs lists every pair the resolver has a rule for, in the
// orientation the resolver expects.
var supportedPairs = []pairRule{
	{KindBall, KindPaddle},
	{KindBall, KindBlock},
	{KindShip, KindAsteroid},
	{KindShip, KindShot},
	{KindShot, KindAsteroid},
}

// canonicalPair orients a and b the way the resolver expects.
func canonicalPair(a, b Kind) (pairRule, bool) {
	for _, p := range supportedPairs {
		if (p.Primary == a && p.Other == b) || (p.Primary == b && p.Other == a) {
			return p, true
		}
	}
	return pairRule{}, false
}

// contactGroup is every entity of one rule's Other kind overlapping a
// single primary entity, in arena order.
type contactGroup struct {
	Rule    pairRule
	Primary *Entity
	Others  []*Entity
}

// overlaps tests two entities for contact. Two circles use the distance
// between centres; anything involving a box uses bounding boxes.
func overlaps(a, b *Entity) bool {
	if a.Shape.Kind == ShapeCircle && b.Shape.Kind == ShapeCircle {
		return core.CirclesOverlap(
			core.Circle{Center: a.Pos, Radius: a.Shape.Radius},
			core.Circle{Center: b.Pos, Radius: b.Shape.Radius},
		)
	}
	return a.Bounds().Intersects(b.Bounds())
}

// detect finds every overlapping pair for the registered rules. Groups come
// out in rule registration order, then primary arena order; the entities in
// a group keep arena order.
func detect(arena *Arena, rules []pairRule) []contactGroup {
	var groups []contactGroup
	for _, r := range rules {
		others := arena.ofKind(r.Other)
		if len(others) == 0 {
			continue
		}
		for _, p := range arena.ofKind(r.Primary) {
			var hits []*Entity
			for _, o := range others {
				if o != p && overlaps(p, o) {
					hits = append(hits, o)
				}
			}
			if len(hits) > 0 {
				groups = append(groups, contactGroup{Rule: r, Primary: p, Others: hits})
			}
		}
	}
	return groups
}

package clip

import "sort"

// ProfilePoint is one control point of a radius profile: a normalized
// axial position in [0,1] and the radius at that position.
type ProfilePoint struct {
	Position float64
	Radius   float64
}

// RadiusProfile defines a piecewise-linear radius along a normalized
// axial parameter t in [0,1], shaped by up to four control points.
// The same evaluator drives both the bore inside test and tube
// generation, so a rendered preview of a bore always matches the
// surface the clip actually uses.
type RadiusProfile struct {
	Points [4]ProfilePoint
}

// NewRadiusProfile builds a profile from up to four control points.
// Fewer points are padded by repeating the last one, so a single point
// yields a constant radius.
func NewRadiusProfile(points ...ProfilePoint) RadiusProfile {
	var p RadiusProfile
	if len(points) == 0 {
		return p
	}
	last := points[0]
	for i := 0; i < 4; i++ {
		if i < len(points) {
			last = points[i]
		}
		p.Points[i] = last
	}
	return p
}

// ConstantProfile returns a profile with the same radius everywhere
func ConstantProfile(radius float64) RadiusProfile {
	return NewRadiusProfile(ProfilePoint{Position: 0, Radius: radius})
}

// sorted returns a copy with control points ordered by position.
// Callers may supply points in any order; evaluation always works on
// the sorted sequence.
func (p RadiusProfile) sorted() RadiusProfile {
	out := p
	sort.SliceStable(out.Points[:], func(i, j int) bool {
		return out.Points[i].Position < out.Points[j].Position
	})
	return out
}

// RadiusAt evaluates the profile at parameter t. t is clamped to [0,1].
// Zero-length segments never divide by zero: for t at or past a
// duplicated position the later point's radius wins.
func (p RadiusProfile) RadiusAt(t float64) float64 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	pts := p.sorted().Points
	if t < pts[0].Position {
		return pts[0].Radius
	}

	// Pick the last segment whose start is at or before t, so a
	// duplicated position acts as a step to the later radius.
	i := 0
	for i < 3 && pts[i+1].Position <= t {
		i++
	}
	if i == 3 {
		return pts[3].Radius
	}
	span := pts[i+1].Position - pts[i].Position
	if span <= 0 {
		return pts[i+1].Radius
	}
	frac := (t - pts[i].Position) / span
	return pts[i].Radius + (pts[i+1].Radius-pts[i].Radius)*frac
}

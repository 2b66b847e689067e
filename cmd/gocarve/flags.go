package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/philipparndt/gocarve/pkg/clip"
	"github.com/philipparndt/gocarve/pkg/geometry"
)

// parseVec3 parses a comma-separated "x,y,z" flag value
func parseVec3(s string) (geometry.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geometry.Vector3{}, fmt.Errorf("expected x,y,z but got %q", s)
	}
	var coords [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid coordinate %q in %q", part, s)
		}
		coords[i] = v
	}
	return geometry.NewVector3(coords[0], coords[1], coords[2]), nil
}

// parseProfile parses a radius profile flag: either a single constant
// radius ("1.5") or up to four position:radius control points
// ("0:1.5,0.2:1.2,1:0.8").
func parseProfile(s string) (clip.RadiusProfile, error) {
	parts := strings.Split(s, ",")
	if len(parts) > 4 {
		return clip.RadiusProfile{}, fmt.Errorf("a profile takes at most 4 control points, got %d", len(parts))
	}

	if len(parts) == 1 && !strings.Contains(parts[0], ":") {
		radius, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return clip.RadiusProfile{}, fmt.Errorf("invalid radius %q", parts[0])
		}
		return clip.ConstantProfile(radius), nil
	}

	points := make([]clip.ProfilePoint, 0, len(parts))
	for _, part := range parts {
		pr := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(pr) != 2 {
			return clip.RadiusProfile{}, fmt.Errorf("control point %q is not position:radius", part)
		}
		pos, err := strconv.ParseFloat(pr[0], 64)
		if err != nil {
			return clip.RadiusProfile{}, fmt.Errorf("invalid position %q in %q", pr[0], part)
		}
		radius, err := strconv.ParseFloat(pr[1], 64)
		if err != nil {
			return clip.RadiusProfile{}, fmt.Errorf("invalid radius %q in %q", pr[1], part)
		}
		points = append(points, clip.ProfilePoint{Position: pos, Radius: radius})
	}
	return clip.NewRadiusProfile(points...), nil
}

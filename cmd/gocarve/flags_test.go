package main

import (
	"testing"

	"github.com/philipparndt/gocarve/pkg/geometry"
)

func TestParseVec3(t *testing.T) {
	v, err := parseVec3("1,2.5,-3")
	if err != nil {
		t.Fatalf("parseVec3 failed: %v", err)
	}
	if v != geometry.NewVector3(1, 2.5, -3) {
		t.Errorf("unexpected vector: %v", v)
	}

	for _, bad := range []string{"", "1,2", "1,2,3,4", "1,2,x", "1,2,3junk"} {
		if _, err := parseVec3(bad); err == nil {
			t.Errorf("parseVec3(%q) should fail", bad)
		}
	}
}

func TestParseProfile(t *testing.T) {
	p, err := parseProfile("1.5")
	if err != nil {
		t.Fatalf("parseProfile failed: %v", err)
	}
	if got := p.RadiusAt(0.5); got != 1.5 {
		t.Errorf("constant profile radius = %v, expected 1.5", got)
	}

	p, err = parseProfile("0:1,0.5:2,1:3")
	if err != nil {
		t.Fatalf("parseProfile failed: %v", err)
	}
	if got := p.RadiusAt(0.5); got != 2 {
		t.Errorf("RadiusAt(0.5) = %v, expected 2", got)
	}

	for _, bad := range []string{"", "x", "0:1,0.5", "a:1", "0:b", "0:1,0.2:1,0.4:1,0.6:1,0.8:1"} {
		if _, err := parseProfile(bad); err == nil {
			t.Errorf("parseProfile(%q) should fail", bad)
		}
	}
}

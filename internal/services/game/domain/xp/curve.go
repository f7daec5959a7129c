// Package xp models the leveling curve and lifetime-experience math.
package xp

import "math"

// Curve describes a geometric leveling curve. The experience required to
// advance from level N to N+1 grows by Scaling per level.
type Curve struct {
	// BaseXP is the experience required to advance from level 1 to 2.
	BaseXP int64
	// Scaling multiplies the requirement per level.
	Scaling float64
	// MaxLevel caps progression. Zero means uncapped.
	MaxLevel int
}

// RequiredForNext returns the experience needed to advance from the given
// level to the next one. Values saturate at math.MaxInt64 instead of
// overflowing, and characters at MaxLevel can never advance.
func (c Curve) RequiredForNext(level int) int64 {
	if level < 1 {
		level = 1
	}
	if c.MaxLevel > 0 && level >= c.MaxLevel {
		return math.MaxInt64
	}
	value := float64(c.BaseXP) * math.Pow(c.Scaling, float64(level-1))
	if value >= float64(math.MaxInt64) {
		return math.MaxInt64
	}
	return int64(math.Floor(value))
}

// FloorForLevel returns the total lifetime experience needed to reach the
// given level. Level 1 has a floor of zero.
func (c Curve) FloorForLevel(level int) int64 {
	if c.MaxLevel > 0 && level > c.MaxLevel {
		level = c.MaxLevel
	}
	var total int64
	for l := 1; l < level; l++ {
		required := c.RequiredForNext(l)
		if required > math.MaxInt64-total {
			return math.MaxInt64
		}
		total += required
	}
	return total
}

// LevelForExperience returns the level a lifetime experience total confers.
func (c Curve) LevelForExperience(experience int64) int {
	if experience < 0 {
		experience = 0
	}
	level := 1
	var total int64
	for {
		if c.MaxLevel > 0 && level >= c.MaxLevel {
			return c.MaxLevel
		}
		required := c.RequiredForNext(level)
		if required > math.MaxInt64-total {
			return level
		}
		total += required
		if experience < total {
			return level
		}
		level++
	}
}

// ProgressToNext returns the experience gained within the current level and
// the requirement to reach the next one.
func (c Curve) ProgressToNext(experience int64) (into, required int64) {
	level := c.LevelForExperience(experience)
	floor := c.FloorForLevel(level)
	return experience - floor, c.RequiredForNext(level)
}

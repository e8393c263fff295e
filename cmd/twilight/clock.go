package main

import (
	"time"

	"github.com/MarkEdmondson1234/TwilightGame-sub007/internal/world"
)

// Game-time pacing: one in-game day passes in 20 real minutes, and a
// season lasts 7 in-game days. Night covers the last third of a day.
const (
	dayLength     = 20 * time.Minute
	daysPerSeason = 7
)

var seasonOrder = [4]world.Season{world.Spring, world.Summer, world.Autumn, world.Winter}

// worldClock owns world time for the demo binary. The simulation core
// never caches these values — it asks every tick.
type worldClock struct {
	elapsed time.Duration
}

func newWorldClock() *worldClock {
	return &worldClock{}
}

// advance moves game time forward by one real tick.
func (c *worldClock) advance(dt time.Duration) {
	c.elapsed += dt
}

func (c *worldClock) Season() world.Season {
	day := int(c.elapsed / dayLength)
	return seasonOrder[(day/daysPerSeason)%len(seasonOrder)]
}

func (c *worldClock) TimeOfDay() world.TimeOfDay {
	intoDay := c.elapsed % dayLength
	if intoDay >= dayLength*2/3 {
		return world.Night
	}
	return world.Day
}

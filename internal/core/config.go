package core

import "time"

// RuntimeConfig contains the settings a host passes to a running game.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Ticks per second when the game starts (default 10)
	Seed     int64 // RNG seed for deterministic gameplay, 0 = time based
}

// ResolveSeed returns seed, or the current time in nanoseconds when seed
// is 0. Each call with 0 gives a different seed.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// GameState is what a host shows about the game in progress.
type GameState struct {
	Score    int    // Value of the configured score variable
	Ticks    uint64 // Loop iterations so far
	GameOver bool   // The program executed stop
	Paused   bool   // The ticker is stopped by the player
}

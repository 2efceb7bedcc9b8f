// Package stats tracks the score, level and remaining ships of a game,
// and the high scores shared by every game in the process.
package stats

// Stats is the state of one game. It is owned by the game loop.
type Stats struct {
	Score     int
	Level     int
	ShipsLeft int
	HighScore int
	Active    bool

	shipLimit int
}

// New creates stats for a game with shipLimit ships in reserve.
// The high score starts at highScore, usually the process-wide best.
func New(shipLimit, highScore int) *Stats {
	s := &Stats{shipLimit: shipLimit, HighScore: highScore}
	s.Reset()
	return s
}

// Reset starts a new game: score 0, level 1, a full reserve of ships.
// The high score is kept and the game is left inactive.
func (s *Stats) Reset() {
	s.Score = 0
	s.Level = 1
	s.ShipsLeft = s.shipLimit
	s.Active = false
}

// AddKills adds points for each destroyed alien and updates the high score.
// Returns true if the high score changed.
func (s *Stats) AddKills(kills, points int) bool {
	if kills <= 0 {
		return false
	}
	s.Score += kills * points
	return s.CheckHighScore()
}

// CheckHighScore raises the high score to the current score if it was beaten.
func (s *Stats) CheckHighScore() bool {
	if s.Score > s.HighScore {
		s.HighScore = s.Score
		return true
	}
	return false
}

// LevelUp advances to the next wave.
func (s *Stats) LevelUp() {
	s.Level++
}

// LoseShip takes one ship from the reserve. Returns false, leaving the
// reserve untouched, when no ship was left to lose.
func (s *Stats) LoseShip() bool {
	if s.ShipsLeft <= 0 {
		return false
	}
	s.ShipsLeft--
	return true
}

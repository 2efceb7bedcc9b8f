package loop

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/settings"
	"github.com/tomz197/invaders/internal/stats"
)

// ----- test doubles -----

type fakeClock struct {
	t     time.Time
	slept time.Duration
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		d = time.Millisecond
	}
	c.slept += d
	c.t = c.t.Add(d)
}

func (c *fakeClock) advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

type recordingSurface struct {
	presents int
	err      error
	panics   bool

	texts   []string
	sprites map[object.Sprite]int
	buttons int

	lastTexts   []string
	lastSprites map[object.Sprite]int
	lastButtons int
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{sprites: map[object.Sprite]int{}}
}

func (s *recordingSurface) Size() (float64, float64) { return 1200, 800 }
func (s *recordingSurface) DrawBackground(float64)   {}
func (s *recordingSurface) DrawRect(physics.Rect)    {}

func (s *recordingSurface) DrawSprite(kind object.Sprite, _ physics.Rect) {
	s.sprites[kind]++
}

func (s *recordingSurface) DrawText(_, _ float64, text string) {
	s.texts = append(s.texts, text)
}

func (s *recordingSurface) MeasureText(text string) (float64, float64) {
	return float64(len(text)) * 10, 20
}

func (s *recordingSurface) DrawButton(object.Button) { s.buttons++ }

func (s *recordingSurface) Present() error {
	if s.panics {
		panic("surface exploded")
	}
	s.presents++
	s.lastTexts, s.texts = s.texts, nil
	s.lastSprites, s.sprites = s.sprites, map[object.Sprite]int{}
	s.lastButtons, s.buttons = s.buttons, 0
	return s.err
}

func (s *recordingSurface) shown(sub string) bool {
	for _, t := range s.lastTexts {
		if strings.Contains(t, sub) {
			return true
		}
	}
	return false
}

type scriptedInput struct {
	polls [][]input.Event
}

func (in *scriptedInput) push(events ...input.Event) {
	in.polls = append(in.polls, events)
}

func (in *scriptedInput) Poll() []input.Event {
	if len(in.polls) == 0 {
		return nil
	}
	ev := in.polls[0]
	in.polls = in.polls[1:]
	return ev
}

type recordingAudio struct {
	played []audio.Sound
	music  int
}

func (a *recordingAudio) Play(s audio.Sound) { a.played = append(a.played, s) }
func (a *recordingAudio) PlayMusic()         { a.music++ }

func (a *recordingAudio) count(s audio.Sound) int {
	n := 0
	for _, p := range a.played {
		if p == s {
			n++
		}
	}
	return n
}

type testGame struct {
	*Game
	clock   *fakeClock
	surface *recordingSurface
	input   *scriptedInput
	audio   *recordingAudio
}

func testOptions() Options {
	return Options{
		FrameBudget:       10 * time.Millisecond,
		HitPause:          1500 * time.Millisecond,
		ExplosionDuration: 500 * time.Millisecond,
		StartActive:       true,
	}
}

func newTestGame(t *testing.T, opts Options, board *stats.Board) *testGame {
	t.Helper()
	tg := &testGame{
		clock:   &fakeClock{t: time.Unix(1000, 0)},
		surface: newRecordingSurface(),
		input:   &scriptedInput{},
		audio:   &recordingAudio{},
	}
	g, err := NewGame(Deps{
		Settings: settings.New(config.Default().Settings()),
		Surface:  tg.surface,
		Input:    tg.input,
		Audio:    tg.audio,
		Clock:    tg.clock,
		Board:    board,
		Player:   "tester",
	}, opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	tg.Game = g
	return tg
}

// placeAliens replaces the fleet with aliens at the given top-left corners.
func (tg *testGame) placeAliens(corners ...[2]float64) []*object.Alien {
	aliens := make([]*object.Alien, 0, len(corners))
	for _, c := range corners {
		aliens = append(aliens, object.NewAlien(tg.settings, c[0], c[1]))
	}
	tg.fleet.Aliens = aliens
	return append([]*object.Alien(nil), aliens...)
}

func (tg *testGame) addBullet(x, y float64) *object.Bullet {
	b := object.NewBullet(tg.settings, tg.ship)
	b.X, b.Y = x, y
	tg.bullets = append(tg.bullets, b)
	return b
}

func (tg *testGame) step(t *testing.T, d time.Duration) bool {
	t.Helper()
	ran, err := tg.Step(tg.clock.advance(d))
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	return ran
}

// ----- construction -----

func TestNewGame_RequiresCollaborators(t *testing.T) {
	if _, err := NewGame(Deps{}, testOptions()); err == nil {
		t.Error("expected error without settings, surface and input")
	}
}

func TestNewGame_StartsActiveWithFullFleet(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)

	if tg.State() != StateActive || !tg.Stats().Active {
		t.Errorf("state = %v, active = %v", tg.State(), tg.Stats().Active)
	}
	if tg.fleet.Len() != 140 {
		t.Errorf("fleet = %d aliens, want 140", tg.fleet.Len())
	}
	if tg.Stats().ShipsLeft != 3 || tg.Stats().Level != 1 {
		t.Errorf("unexpected stats %+v", tg.Stats())
	}
}

func TestNewGame_WaitsOnPlayScreen(t *testing.T) {
	opts := testOptions()
	opts.StartActive = false
	tg := newTestGame(t, opts, nil)

	if tg.State() != StateInactive || !tg.fleet.Empty() {
		t.Errorf("state = %v with %d aliens", tg.State(), tg.fleet.Len())
	}
}

func TestNewGame_HighScoreFromBoard(t *testing.T) {
	board := stats.NewBoard(10)
	board.Submit("someone", 500)

	tg := newTestGame(t, testOptions(), board)
	if tg.Stats().HighScore != 500 {
		t.Errorf("high score = %d, want 500", tg.Stats().HighScore)
	}
}

// ----- collisions and scoring -----

func TestCollision_OneBulletOneAlien(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.placeAliens([2]float64{500, 300}, [2]float64{100, 100})
	tg.addBullet(510, 310)

	tg.updateBullets()

	if tg.fleet.Len() != 1 || len(tg.bullets) != 0 {
		t.Fatalf("aliens = %d, bullets = %d", tg.fleet.Len(), len(tg.bullets))
	}
	if tg.Stats().Score != 50 {
		t.Errorf("score = %d, want 50", tg.Stats().Score)
	}
	if tg.audio.count(audio.AlienExplosion) != 1 {
		t.Errorf("explosion sounds = %d, want 1", tg.audio.count(audio.AlienExplosion))
	}
	if !object.Active(tg.effects, object.SpriteAlienExplosion) {
		t.Error("no explosion effect")
	}
}

func TestCollision_ThreeAliensOneBullet(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.placeAliens(
		[2]float64{480, 300}, [2]float64{490, 300}, [2]float64{500, 300},
		[2]float64{100, 100},
	)
	tg.addBullet(510, 310)

	tg.updateBullets()

	if tg.Stats().Score != 150 || tg.Stats().HighScore != 150 {
		t.Errorf("score = %d, high = %d, want 150/150", tg.Stats().Score, tg.Stats().HighScore)
	}
	if tg.audio.count(audio.AlienExplosion) != 1 {
		t.Errorf("one sound per bullet expected, got %d", tg.audio.count(audio.AlienExplosion))
	}
	if n := len(tg.effects); n != 3 {
		t.Errorf("effects = %d, want one per alien", n)
	}
}

func TestCollision_DestroyedAlienNotHitTwice(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.placeAliens([2]float64{500, 300}, [2]float64{100, 100})
	first := tg.addBullet(510, 310)
	second := tg.addBullet(512, 312)

	tg.updateBullets()

	if !first.IsDestroyed() || second.IsDestroyed() {
		t.Error("only the first bullet should hit")
	}
	if len(tg.bullets) != 1 || tg.Stats().Score != 50 {
		t.Errorf("bullets = %d, score = %d", len(tg.bullets), tg.Stats().Score)
	}
}

func TestCollision_EdgeContactIsNotAHit(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.placeAliens([2]float64{500, 300})
	tg.addBullet(540, 310) // Left edge on the alien's right edge

	tg.updateBullets()

	if tg.fleet.Len() != 1 || tg.Stats().Score != 0 {
		t.Error("touching rectangles must not collide")
	}
}

func TestCollision_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		tg := newTestGame(t, testOptions(), nil)

		var corners [][2]float64
		for i := 0; i < 30; i++ {
			corners = append(corners, [2]float64{rng.Float64() * 1160, rng.Float64() * 700})
		}
		aliens := tg.placeAliens(corners...)
		for i := 0; i < 8; i++ {
			tg.addBullet(rng.Float64()*1200, rng.Float64()*700)
		}

		// Brute force in firing order.
		want := make(map[*object.Alien]bool)
		wantScore := 0
		for _, b := range tg.bullets {
			for _, a := range aliens {
				if !want[a] && b.Rect().Intersects(a.Rect()) {
					want[a] = true
					wantScore += 50
				}
			}
		}

		tg.checkBulletAlienCollisions()

		for _, a := range aliens {
			if a.IsDestroyed() != want[a] {
				t.Fatalf("round %d: alien at (%.1f,%.1f) destroyed = %v, want %v",
					round, a.X, a.Y, a.IsDestroyed(), want[a])
			}
		}
		if tg.Stats().Score != wantScore {
			t.Fatalf("round %d: score = %d, want %d", round, tg.Stats().Score, wantScore)
		}
	}
}

func TestCollision_HighScoreSubmitted(t *testing.T) {
	board := stats.NewBoard(10)
	tg := newTestGame(t, testOptions(), board)
	tg.placeAliens([2]float64{500, 300}, [2]float64{100, 100})
	tg.addBullet(510, 310)

	tg.updateBullets()

	if board.Best() != 50 {
		t.Errorf("board best = %d, want 50", board.Best())
	}
}

// ----- waves -----

func TestWaveClear(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.placeAliens([2]float64{500, 300})
	tg.addBullet(510, 310)
	tg.addBullet(100, 600)

	tg.updateBullets()

	if len(tg.bullets) != 0 {
		t.Errorf("bullets = %d, want 0", len(tg.bullets))
	}
	if tg.fleet.Len() != 140 {
		t.Errorf("new fleet = %d aliens, want 140", tg.fleet.Len())
	}
	if tg.Stats().Level != 2 {
		t.Errorf("level = %d, want 2", tg.Stats().Level)
	}
	if got, want := tg.settings.Dynamic.AlienSpeed, 150*1.1; math.Abs(got-want) > 1e-9 {
		t.Errorf("alien speed = %v, want %v", got, want)
	}
	if tg.settings.Dynamic.AlienPoints != 75 {
		t.Errorf("alien points = %d, want 75", tg.settings.Dynamic.AlienPoints)
	}
}

type countingEscalator struct {
	resets int
}

func (e *countingEscalator) Escalate(current settings.Dynamic, _ settings.Base) (settings.Dynamic, error) {
	return current, nil
}

func (e *countingEscalator) Reset() { e.resets++ }

func TestStartGame_ResetsEscalator(t *testing.T) {
	esc := &countingEscalator{}
	g, err := NewGame(Deps{
		Settings:  settings.New(config.Default().Settings()),
		Surface:   newRecordingSurface(),
		Input:     &scriptedInput{},
		Escalator: esc,
	}, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if esc.resets != 1 {
		t.Errorf("resets = %d, want 1", esc.resets)
	}
	g.startGame()
	if esc.resets != 2 {
		t.Errorf("resets = %d, want 2", esc.resets)
	}
}

// ----- ship hits -----

func TestShipHit_PausesAndResumes(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.placeAliens([2]float64{tg.ship.X, tg.ship.Y})
	tg.addBullet(100, 500)

	tg.step(t, 20*time.Millisecond)

	if tg.State() != StatePaused {
		t.Fatalf("state = %v, want paused", tg.State())
	}
	if tg.Stats().ShipsLeft != 2 {
		t.Errorf("ships left = %d, want 2", tg.Stats().ShipsLeft)
	}
	if tg.fleet.Len() != 140 || len(tg.bullets) != 0 {
		t.Errorf("aliens = %d, bullets = %d", tg.fleet.Len(), len(tg.bullets))
	}
	if tg.audio.count(audio.ShipExplosion) != 1 {
		t.Error("no ship explosion sound")
	}

	// Nothing moves during the pause.
	tg.ship.MovingRight = true
	x0 := tg.ship.X
	alienX := tg.fleet.Aliens[0].X
	for i := 0; i < 10; i++ {
		tg.step(t, 100*time.Millisecond)
	}
	if tg.ship.X != x0 || tg.fleet.Aliens[0].X != alienX {
		t.Fatal("world moved while paused")
	}
	if !tg.surface.shown(getReadyText) {
		t.Error("pause screen not drawn")
	}

	// 1.0s of the 1.5s pause has passed; resume 20ms after it ends.
	tg.step(t, 520*time.Millisecond)
	if tg.State() != StateActive {
		t.Fatalf("state = %v, want active", tg.State())
	}
	if got := tg.ship.X - x0; math.Abs(got-450*0.02) > 1e-6 {
		t.Errorf("ship moved %v on resume, want %v", got, 450*0.02)
	}
}

func TestShipHit_AlienReachesBottom(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.placeAliens([2]float64{100, 800 - 32})

	tg.step(t, 20*time.Millisecond)

	if tg.State() != StatePaused || tg.Stats().ShipsLeft != 2 {
		t.Errorf("state = %v, ships = %d", tg.State(), tg.Stats().ShipsLeft)
	}
}

func TestShipHit_LastReserveShip(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.stats.ShipsLeft = 1
	tg.placeAliens([2]float64{tg.ship.X, tg.ship.Y})

	tg.step(t, 20*time.Millisecond)

	if tg.State() != StatePaused || tg.Stats().ShipsLeft != 0 || !tg.Stats().Active {
		t.Errorf("state = %v, ships = %d, active = %v", tg.State(), tg.Stats().ShipsLeft, tg.Stats().Active)
	}
}

func TestShipHit_GameOver(t *testing.T) {
	board := stats.NewBoard(10)
	tg := newTestGame(t, testOptions(), board)
	tg.stats.ShipsLeft = 0
	tg.stats.Score = 300
	tg.placeAliens([2]float64{tg.ship.X, tg.ship.Y})

	tg.step(t, 20*time.Millisecond)

	if tg.State() != StateInactive || tg.Stats().Active {
		t.Errorf("state = %v, active = %v", tg.State(), tg.Stats().Active)
	}
	if tg.Stats().ShipsLeft != 0 {
		t.Errorf("ships left = %d, want 0", tg.Stats().ShipsLeft)
	}
	if board.Best() != 300 {
		t.Errorf("final score not submitted: best = %d", board.Best())
	}
	if tg.surface.lastButtons != 1 || !tg.surface.shown(gameOverText) {
		t.Error("play screen not drawn after game over")
	}
}

// ----- loop timing -----

func TestStep_ThrottleSkipsEarlyIterations(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.input.push(input.Event{Type: input.KeyDown, Key: input.KeySpace})

	if tg.step(t, 5*time.Millisecond) {
		t.Fatal("iteration inside the frame budget should be skipped")
	}
	if tg.surface.presents != 0 || len(tg.input.polls) != 1 {
		t.Fatal("skipped iteration touched input or display")
	}

	if !tg.step(t, 5*time.Millisecond) {
		t.Fatal("iteration at the frame budget should run")
	}
	if tg.surface.presents != 1 || len(tg.bullets) != 1 {
		t.Errorf("presents = %d, bullets = %d", tg.surface.presents, len(tg.bullets))
	}
	if tg.settings.DeltaTime != 10*time.Millisecond {
		t.Errorf("delta = %v, want 10ms", tg.settings.DeltaTime)
	}
}

func TestStep_ShipMovesByDeltaTime(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.input.push(input.Event{Type: input.KeyDown, Key: input.KeyRight})
	x0 := tg.ship.X

	tg.step(t, 100*time.Millisecond)

	if got, want := tg.ship.X, x0+45; math.Abs(got-want) > 1e-9 {
		t.Errorf("x = %v, want %v", got, want)
	}

	tg.input.push(input.Event{Type: input.KeyUp, Key: input.KeyRight})
	tg.step(t, 100*time.Millisecond)
	if math.Abs(tg.ship.X-(x0+45)) > 1e-9 {
		t.Error("ship kept moving after key up")
	}
}

func TestStep_LongFrameIsCapped(t *testing.T) {
	opts := testOptions()
	opts.MaxDelta = 100 * time.Millisecond
	tg := newTestGame(t, opts, nil)
	tg.ship.MovingRight = true
	x0 := tg.ship.X

	tg.step(t, 2*time.Second)

	if got, want := tg.ship.X, x0+45; math.Abs(got-want) > 1e-9 {
		t.Errorf("x = %v after a 2s stall, want %v", got, want)
	}
	if tg.settings.DeltaTime != opts.MaxDelta {
		t.Errorf("delta time = %v, want %v", tg.settings.DeltaTime, opts.MaxDelta)
	}
}

func TestStep_StallAtEdgeDropsFleetOnce(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	aliens := tg.placeAliens([2]float64{20, 100})
	tg.settings.Dynamic.FleetDirection = -1

	// Uncapped, a 1s stall carries the alien 130px past the left edge.
	tg.step(t, time.Second)
	if aliens[0].X >= 0 {
		t.Fatalf("expected overshoot, x = %v", aliens[0].X)
	}
	for i := 0; i < 10; i++ {
		tg.step(t, 16*time.Millisecond)
	}

	if aliens[0].Y != 110 {
		t.Errorf("y = %v, want a single drop to 110", aliens[0].Y)
	}
	if tg.settings.Dynamic.FleetDirection != 1 {
		t.Errorf("direction = %v, want 1", tg.settings.Dynamic.FleetDirection)
	}
}

func TestStep_QuitEvents(t *testing.T) {
	tests := []struct {
		name string
		ev   input.Event
	}{
		{"quit", input.Event{Type: input.Quit}},
		{"escape", input.Event{Type: input.KeyDown, Key: input.KeyEscape}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := newTestGame(t, testOptions(), nil)
			tg.input.push(tt.ev)
			_, err := tg.Step(tg.clock.advance(20 * time.Millisecond))
			if !errors.Is(err, ErrQuit) {
				t.Errorf("err = %v, want ErrQuit", err)
			}
		})
	}
}

func TestStep_RecoversPanickingFrame(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.surface.panics = true

	ran, err := tg.Step(tg.clock.advance(20 * time.Millisecond))
	if !ran || err != nil {
		t.Errorf("ran = %v, err = %v", ran, err)
	}

	tg.surface.panics = false
	if !tg.step(t, 20*time.Millisecond) {
		t.Error("loop did not continue after a panic")
	}
}

// ----- input handling -----

func TestFire_BulletLimit(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	space := input.Event{Type: input.KeyDown, Key: input.KeySpace}
	tg.input.push(space, space, space, space, space)

	tg.step(t, 10*time.Millisecond)

	if len(tg.bullets) != 3 {
		t.Errorf("bullets = %d, want 3", len(tg.bullets))
	}
	if tg.audio.count(audio.Shot) != 3 {
		t.Errorf("shot sounds = %d, want 3", tg.audio.count(audio.Shot))
	}
}

func TestFire_IgnoredWhileInactive(t *testing.T) {
	opts := testOptions()
	opts.StartActive = false
	tg := newTestGame(t, opts, nil)
	tg.input.push(input.Event{Type: input.KeyDown, Key: input.KeySpace})

	tg.step(t, 10*time.Millisecond)

	if len(tg.bullets) != 0 {
		t.Error("fired on the play screen")
	}
}

func TestPlay_PointerOnButton(t *testing.T) {
	opts := testOptions()
	opts.StartActive = false
	tg := newTestGame(t, opts, nil)

	tg.input.push(input.Event{Type: input.PointerDown, X: 10, Y: 10})
	tg.step(t, 10*time.Millisecond)
	if tg.State() != StateInactive {
		t.Fatal("click outside the button started the game")
	}
	if tg.surface.lastButtons != 1 {
		t.Error("play button not drawn")
	}

	tg.input.push(input.Event{Type: input.PointerDown, X: 600, Y: 400})
	tg.step(t, 10*time.Millisecond)
	if tg.State() != StateActive || tg.fleet.Len() != 140 {
		t.Errorf("state = %v, aliens = %d", tg.State(), tg.fleet.Len())
	}
}

func TestPlay_EnterRestartsAfterGameOver(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.stats.ShipsLeft = 0
	tg.stats.Score = 120
	tg.stats.CheckHighScore()
	tg.stats.Level = 4
	tg.settings.Dynamic.AlienSpeed = 999
	tg.placeAliens([2]float64{tg.ship.X, tg.ship.Y})
	tg.step(t, 10*time.Millisecond)
	if tg.State() != StateInactive {
		t.Fatalf("state = %v, want inactive", tg.State())
	}

	tg.ship.MovingLeft = true
	tg.input.push(input.Event{Type: input.KeyDown, Key: input.KeyEnter})
	tg.step(t, 10*time.Millisecond)

	st := tg.Stats()
	if tg.State() != StateActive || !st.Active {
		t.Fatalf("state = %v, want active", tg.State())
	}
	if st.Score != 0 || st.Level != 1 || st.ShipsLeft != 3 || st.HighScore != 120 {
		t.Errorf("stats not reset: %+v", st)
	}
	if tg.settings.Dynamic.AlienSpeed != 150 {
		t.Errorf("alien speed = %v, want 150", tg.settings.Dynamic.AlienSpeed)
	}
	if tg.ship.MovingLeft {
		t.Error("movement flags survived the restart")
	}
}

// ----- rendering -----

func TestRender_Scoreboard(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	tg.stats.Score = 12344
	tg.stats.HighScore = 20000

	tg.step(t, 10*time.Millisecond)

	for _, want := range []string{"Score 12,340", "High 20,000", "Level 1"} {
		if !tg.surface.shown(want) {
			t.Errorf("%q not shown in %q", want, tg.surface.lastTexts)
		}
	}
	// The ship plus one icon per reserve ship.
	if got := tg.surface.lastSprites[object.SpriteShip]; got != 4 {
		t.Errorf("ship sprites = %d, want 4", got)
	}
	if got := tg.surface.lastSprites[object.SpriteAlien]; got != 140 {
		t.Errorf("alien sprites = %d, want 140", got)
	}
}

func TestRender_TopScoresOnPlayScreen(t *testing.T) {
	board := stats.NewBoard(10)
	board.Submit("alice", 1500)
	board.Submit("bob", 700)
	opts := testOptions()
	opts.StartActive = false
	tg := newTestGame(t, opts, board)

	tg.step(t, 10*time.Millisecond)

	if !tg.surface.shown(topScoresHeader) || !tg.surface.shown("alice") || !tg.surface.shown("1,500") {
		t.Errorf("top scores missing from %q", tg.surface.lastTexts)
	}
}

// ----- Run -----

func TestRun_ReturnsOnQuit(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	for i := 0; i < 5; i++ {
		tg.input.push()
	}
	tg.input.push(input.Event{Type: input.Quit})

	if err := tg.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tg.audio.music != 1 {
		t.Errorf("music started %d times, want 1", tg.audio.music)
	}
	if tg.surface.presents != 5 {
		t.Errorf("presents = %d, want 5", tg.surface.presents)
	}
	if tg.clock.slept == 0 {
		t.Error("loop never slept between frames")
	}
}

func TestRun_SubmitsGameInProgress(t *testing.T) {
	board := stats.NewBoard(10)
	board.Submit("leader", 5000)
	tg := newTestGame(t, testOptions(), board)
	tg.Stats().Score = 1200
	tg.input.push(input.Event{Type: input.KeyDown, Key: input.KeyEscape})

	if err := tg.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	top := board.Top()
	if len(top) != 2 || top[1].Name != "tester" || top[1].Score != 1200 {
		t.Errorf("board = %+v, want tester with 1200 second", top)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tg.Run(ctx); err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestRun_SurfaceError(t *testing.T) {
	tg := newTestGame(t, testOptions(), nil)
	broken := errors.New("broken pipe")
	tg.surface.err = broken

	if err := tg.Run(context.Background()); !errors.Is(err, broken) {
		t.Errorf("err = %v, want %v", err, broken)
	}
}

func TestGameState_String(t *testing.T) {
	if StatePaused.String() != "paused" || GameState(42).String() != "unknown" {
		t.Error("unexpected state names")
	}
}

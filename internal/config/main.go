package config

import (
	"time"

	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/logger"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	CommandInspect  = "inspect"
	CommandAutoplay = "autoplay"
	CommandPlay     = "play"
	CommandHistory  = "history"
)

// Config is the parsed command line. Every flag can also come from a
// PHICHART_ environment variable.
type Config struct {
	app *kingpin.Application

	Chart       *string
	Audio       *string
	Database    *string
	Granularity *float64
	Precision   *float64

	LogLevel *string
	LogFile  *string

	Challenge           *bool
	Perfect             *float64
	Good                *float64
	Bad                 *float64
	EarlyReleaseGraceMs *float64
	FlickVelocity       *float64
	HitWidthRatio       *float64
	StageWidth          *float64
	StageHeight         *float64
	ScoreAnimationMs    *float64

	FramePeriod *time.Duration
	Delay       *time.Duration
	KeyHold     *time.Duration
	Limit       *int
}

func New() *Config {
	app := kingpin.New("phichart", "Load, judge and score judge line charts.")
	app.Version("0.3.0")
	app.DefaultEnvars()

	c := &Config{app: app}
	c.Database = app.Flag("db", "Score history database").Default("./scores.db").String()
	c.Granularity = app.Flag("granularity", "Easing sample width in beats").Default("0.125").Float64()
	c.Precision = app.Flag("precision", "Value quantum for sampled easings, 0 keeps every value").Default("0").Float64()
	c.LogLevel = app.Flag("log-level", "debug, info, warn or error").Default("info").Enum("debug", "info", "warn", "error")
	c.LogFile = app.Flag("log-file", "Rotated JSON log file, empty to disable").Default("").String()

	c.Challenge = app.Flag("challenge", "Challenge mode timing and scoring").Bool()
	c.Perfect = app.Flag("perfect", "Perfect window in ms, 0 picks the mode default").Default("0").Float64()
	c.Good = app.Flag("good", "Good window in ms, 0 picks the mode default").Default("0").Float64()
	c.Bad = app.Flag("bad", "Bad window in ms, 0 picks the mode default").Default("0").Float64()
	c.EarlyReleaseGraceMs = app.Flag("early-release-grace", "Hold release grace before the end in ms").Default("200").Float64()
	c.FlickVelocity = app.Flag("flick-velocity", "Flick threshold in stage px per ms").Default("0.6").Float64()
	c.HitWidthRatio = app.Flag("hit-width", "Hit corridor width as a fraction of stage width").Default("0.118125").Float64()
	c.StageWidth = app.Flag("stage-width", "Stage width in px").Default("1920").Float64()
	c.StageHeight = app.Flag("stage-height", "Stage height in px").Default("1080").Float64()
	c.ScoreAnimationMs = app.Flag("score-animation", "Hit effect duration in ms").Default("500").Float64()

	c.FramePeriod = app.Flag("frame-period", "Frame period").Default("16ms").Short('p').Duration()
	c.Delay = app.Flag("delay", "Start delay").Default("1.5s").Short('d').Duration()
	c.KeyHold = app.Flag("key-hold", "How long a key press is held").Default("120ms").Duration()

	inspect := app.Command(CommandInspect, "Print a chart summary and its diagnostics")
	autoplay := app.Command(CommandAutoplay, "Play a chart with perfect input and store the result")
	play := app.Command(CommandPlay, "Play a chart in the terminal")
	history := app.Command(CommandHistory, "List stored results for a chart")

	c.Chart = new(string)
	for _, cmd := range []*kingpin.CmdClause{inspect, autoplay, play, history} {
		cmd.Arg("chart", "Chart file").Required().ExistingFileVar(c.Chart)
	}
	c.Audio = play.Flag("audio", "Music file (mp3, ogg or wav)").Short('a').ExistingFile()
	c.Limit = history.Flag("limit", "Results to list").Default("10").Int()
	return c
}

func (c *Config) Parse(args []string) (string, error) {
	return c.app.Parse(args)
}

// JudgeConfig holds the engine tunables.
type JudgeConfig struct {
	Range               game.JudgeRange
	Challenge           bool
	EarlyReleaseGraceMs float64
	FlickVelocity       float64 // stage px per ms
	HitWidthRatio       float64
	StageWidth          float64
	StageHeight         float64
	ScoreAnimationMs    float64
}

func DefaultJudgeConfig() JudgeConfig {
	return JudgeConfig{
		Range:               game.NormalRange,
		EarlyReleaseGraceMs: 200,
		FlickVelocity:       0.6,
		HitWidthRatio:       0.118125,
		StageWidth:          1920,
		StageHeight:         1080,
		ScoreAnimationMs:    500,
	}
}

// HalfHitWidth is half the corridor width in stage px.
func (j JudgeConfig) HalfHitWidth() float64 {
	return j.HitWidthRatio * j.StageWidth / 2
}

func (c *Config) Judge() JudgeConfig {
	j := DefaultJudgeConfig()
	j.Challenge = *c.Challenge
	if j.Challenge {
		j.Range = game.ChallengeRange
	}
	if *c.Perfect > 0 {
		j.Range.Perfect = *c.Perfect
	}
	if *c.Good > 0 {
		j.Range.Good = *c.Good
	}
	if *c.Bad > 0 {
		j.Range.Bad = *c.Bad
	}
	j.EarlyReleaseGraceMs = *c.EarlyReleaseGraceMs
	j.FlickVelocity = *c.FlickVelocity
	j.HitWidthRatio = *c.HitWidthRatio
	j.StageWidth = *c.StageWidth
	j.StageHeight = *c.StageHeight
	j.ScoreAnimationMs = *c.ScoreAnimationMs
	return j
}

// Logger keeps the console quiet while the terminal is in raw mode.
func (c *Config) Logger(command string) logger.Config {
	return logger.Config{
		Level:      logger.LogLevel(*c.LogLevel),
		OutputPath: *c.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Quiet:      command == CommandPlay,
	}
}

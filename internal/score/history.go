package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"sort"
	"time"

	"github.com/PhiFans/phiweb-sub000/internal/input"
	"github.com/PhiFans/phiweb-sub000/internal/logger"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Result is one finished play.
type Result struct {
	Session  uuid.UUID
	Chart    string // HashChart of the source file
	Mode     string
	Score    int
	Accuracy float64
	MaxCombo int
	Counts   Counts
	Inputs   []input.Action
	PlayedAt time.Time
}

// InputsCompact is one gesture of a replay, stored column-wise.
type InputsCompact struct {
	Kind   input.Kind    `json:"k"`
	ID     int           `json:"i"`
	Times  []float64     `json:"t"`
	Xs     []float64     `json:"x"`
	Ys     []float64     `json:"y"`
	Phases []input.Phase `json:"p"`
}

func compactInputs(actions []input.Action) []InputsCompact {
	ins := []InputsCompact{}
	open := map[input.Identity]int{}
	for _, a := range actions {
		id := input.Identity{Kind: a.Kind, ID: a.ID}
		i, ok := open[id]
		if !ok || a.Phase == input.PhaseDown {
			i = len(ins)
			open[id] = i
			ins = append(ins, InputsCompact{Kind: a.Kind, ID: a.ID})
		}
		c := &ins[i]
		c.Times = append(c.Times, a.Time)
		c.Xs = append(c.Xs, a.X)
		c.Ys = append(c.Ys, a.Y)
		c.Phases = append(c.Phases, a.Phase)
		if a.Phase == input.PhaseUp {
			delete(open, id)
		}
	}
	return ins
}

func uncompactInputs(inputs []InputsCompact) []input.Action {
	actions := []input.Action{}
	for _, c := range inputs {
		for j, t := range c.Times {
			actions = append(actions, input.Action{
				Time:  t,
				Kind:  c.Kind,
				ID:    c.ID,
				X:     c.Xs[j],
				Y:     c.Ys[j],
				Phase: c.Phases[j],
			})
		}
	}
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].Time < actions[j].Time })
	return actions
}

// HashChart identifies a chart by its source bytes.
func HashChart(raw []byte) string {
	sum := sha256.Sum256(raw)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// History stores results in sqlite.
type History struct {
	db *sql.DB
}

func OpenHistory(file string) (*History, error) {
	db, err := sql.Open("sqlite3", file)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open score database")
	}

	initStatement := `
	create table if not exists results
	  (
		  id integer not null primary key,
		  session text not null,
		  sum text not null,
		  mode text,
		  score integer,
		  accuracy real,
		  max_combo integer,
		  counts text,
		  inputs blob,
		  played_at integer
	  );
	create index if not exists results_sum on results(sum);
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return nil, errors.Wrap(err, "unable to create results table")
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) Save(r *Result) error {
	if r.Session == uuid.Nil {
		r.Session = uuid.New()
	}
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now()
	}
	inputs, err := json.Marshal(compactInputs(r.Inputs))
	if nil != err {
		return errors.Wrap(err, "unable to marshal inputs")
	}
	counts, err := json.Marshal(r.Counts)
	if nil != err {
		return errors.Wrap(err, "unable to marshal counts")
	}
	_, err = h.db.Exec(
		"insert into results(session, sum, mode, score, accuracy, max_combo, counts, inputs, played_at) values(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.Session.String(), r.Chart, r.Mode, r.Score, r.Accuracy, r.MaxCombo, string(counts), inputs, r.PlayedAt.UnixNano(),
	)
	if nil != err {
		return errors.Wrap(err, "unable to save result")
	}
	logger.Info("result saved",
		logger.String("session", r.Session.String()),
		logger.String("mode", r.Mode),
		logger.Int("score", r.Score),
	)
	return nil
}

// Load returns the stored results for a chart, newest first. Rows that no
// longer decode are skipped.
func (h *History) Load(chart string, limit int) ([]Result, error) {
	rows, err := h.db.Query(
		"select session, mode, score, accuracy, max_combo, counts, inputs, played_at from results where sum = ? order by played_at desc, id desc limit ?",
		chart, limit,
	)
	if nil != err {
		return nil, errors.Wrap(err, "unable to load results")
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var session, counts string
		var inputs []byte
		var playedAt int64
		r := Result{Chart: chart}
		if err := rows.Scan(&session, &r.Mode, &r.Score, &r.Accuracy, &r.MaxCombo, &counts, &inputs, &playedAt); nil != err {
			return nil, errors.Wrap(err, "unable to read result")
		}
		if r.Session, err = uuid.Parse(session); nil != err {
			logger.Warn("skipping result with a bad session id", logger.String("session", session))
			continue
		}
		if err := json.Unmarshal([]byte(counts), &r.Counts); nil != err {
			logger.Warn("skipping result with bad counts", logger.ErrorField(err))
			continue
		}
		var ins []InputsCompact
		if err := json.Unmarshal(inputs, &ins); nil != err {
			logger.Warn("skipping result with a bad replay", logger.ErrorField(err))
			continue
		}
		r.Inputs = uncompactInputs(ins)
		r.PlayedAt = time.Unix(0, playedAt)
		results = append(results, r)
	}
	return results, errors.Wrap(rows.Err(), "unable to read results")
}

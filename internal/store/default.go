package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/vhildebrand/cadence-sub001/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

type DefaultStore struct {
	Path string
	db   *sql.DB
}

func (s *DefaultStore) Init() error {
	path := s.Path
	if path == "" {
		path = "./results.db"
	}
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return err
	}

	initStatement := `
	create table if not exists results
	  (
		  id integer not null primary key,
		  sum text,
		  rate real,
		  total integer,
		  perfect integer,
		  good integer,
		  miss integer,
		  max_streak integer
	  );
	`
	if _, err := db.Exec(initStatement); nil != err {
		return err
	}

	s.db = db
	return nil
}

func (s *DefaultStore) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

// HashScore identifies a score by its content so results survive file
// renames. The random mode's empty note list hashes to a shared sum.
func HashScore(title string, notes []game.ScoreNote) string {
	var b strings.Builder
	b.WriteString(title)
	for _, n := range notes {
		fmt.Fprintf(&b, "%d:%d:%d:%d;", n.Pitch, n.Start, n.Duration, n.Type)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *DefaultStore) Save(sum string, rate float64, state game.ScoreState) {
	_, err := s.db.Exec(
		"insert into results(sum, rate, total, perfect, good, miss, max_streak) values(?, ?, ?, ?, ?, ?, ?)",
		sum, rate, state.Total,
		state.Counts[game.GradePerfect],
		state.Counts[game.GradeGood],
		state.Counts[game.GradeMiss],
		state.MaxStreak,
	)
	if nil != err {
		log.Println("unable to save result", err)
	}
}

func (s *DefaultStore) Load(sum string) []Result {
	results := []Result{}
	rows, err := s.db.Query(
		"select sum, rate, total, perfect, good, miss, max_streak from results where sum = ?", sum)
	if nil != err {
		if err != sql.ErrNoRows {
			log.Println("unable to load results", err)
		}
		return results
	}
	defer rows.Close()
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Sum, &r.Rate, &r.Total, &r.Perfect, &r.Good, &r.Miss, &r.MaxStreak); nil != err {
			log.Println("unable to scan result", err)
			continue
		}
		results = append(results, r)
	}
	return results
}

func (s *DefaultStore) Best(sum string) int {
	best := 0
	for _, r := range s.Load(sum) {
		if r.Total > best {
			best = r.Total
		}
	}
	return best
}

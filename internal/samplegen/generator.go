// Package samplegen generates synthetic rugby match files and uploads them
// to a running dashboard server.
package samplegen

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Period markers bracket each half.
const periodAction = "Period"

// Generator produces deterministic match files from a seed.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// player is one squad member.
type player struct {
	name  string
	shirt int
}

// Fixtures pairs teams for n matches. Consecutive fixtures never repeat a
// pairing until every team in the pool has played.
func (g *Generator) Fixtures(n int) [][2]string {
	out := make([][2]string, 0, n)
	var pool []string
	for len(out) < n {
		if len(pool) < 2 {
			pool = slices.Clone(Teams)
			g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		}
		out = append(out, [2]string{pool[0], pool[1]})
		pool = pool[2:]
	}
	return out
}

// squad returns 23 players with shirts 1 to 23 and distinct surnames.
func (g *Generator) squad() []player {
	names := slices.Clone(surnames)
	g.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	out := make([]player, squadSize)
	for i := range out {
		out[i] = player{
			name:  fmt.Sprintf("%c. %s", 'A'+rune(g.rng.IntN(26)), names[i]),
			shirt: i + 1,
		}
	}
	return out
}

// side tracks who is on the pitch for one team.
type side struct {
	team   string
	onFor  []player
	bench  []player
	toward float64 // +1 attacks toward x=100 in the first half
}

func (g *Generator) newSide(team string, toward float64) *side {
	sq := g.squad()
	return &side{
		team:   team,
		onFor:  slices.Clone(sq[:starters]),
		bench:  slices.Clone(sq[starters:]),
		toward: toward,
	}
}

// Match generates one match with roughly events rows, ordered by MatchTime.
func (g *Generator) Match(round int, home, away string, events int) Match {
	sides := [2]*side{g.newSide(home, 1), g.newSide(away, -1)}
	m := Match{
		Name: fmt.Sprintf("R%02d_%s_v_%s.csv", round, slug(home), slug(away)),
		Home: home,
		Away: away,
	}

	times := make([]float64, events)
	for i := range times {
		times[i] = g.rng.Float64() * matchLength
	}
	slices.Sort(times)

	m.Rows = append(m.Rows, periodRow(home, 0, "Start"))
	possession := g.rng.IntN(2)
	secondHalf := false
	for _, t := range times {
		if !secondHalf && t >= halfLength {
			m.Rows = append(m.Rows, periodRow(home, halfLength, "End"), periodRow(home, halfLength, "Start"))
			secondHalf = true
		}
		if g.rng.Float64() < 0.3 {
			possession = 1 - possession
		}
		s := sides[possession]
		dir := s.toward
		if secondHalf {
			dir = -dir
		}
		m.Rows = append(m.Rows, g.event(s, t, dir))
	}
	if !secondHalf {
		m.Rows = append(m.Rows, periodRow(home, halfLength, "End"), periodRow(home, halfLength, "Start"))
	}
	m.Rows = append(m.Rows, periodRow(home, matchLength, "End"))
	return m
}

func (g *Generator) event(s *side, t, dir float64) []string {
	p := g.pick(t, s)
	var who player
	if p.name == "Sub In" {
		who = s.bench[0]
		s.bench = s.bench[1:]
		out := g.rng.IntN(len(s.onFor))
		s.onFor[out] = who
	} else {
		who = s.onFor[g.rng.IntN(len(s.onFor))]
	}

	x := clamp(50+g.rng.NormFloat64()*22, 0, pitchLength)
	y := g.rng.Float64() * pitchWidth
	xe, ye := 0.0, 0.0
	switch {
	case p.name == "Goal Kick":
		xe = 50 + dir*50
		ye = pitchWidth / 2
	case p.travels:
		xe = clamp(x+dir*p.reach*(0.3+g.rng.Float64()), 0.5, pitchLength)
		ye = clamp(y+g.rng.NormFloat64()*p.reach*0.3, 0.5, pitchWidth)
	}

	return []string{
		p.name,
		p.results[g.rng.IntN(len(p.results))],
		p.types[g.rng.IntN(len(p.types))],
		s.team,
		who.name,
		strconv.Itoa(who.shirt),
		formatFloat(t, 2),
		formatFloat(x, 1),
		formatFloat(y, 1),
		formatFloat(xe, 1),
		formatFloat(ye, 1),
	}
}

// pick draws an action by weight. Substitutions only happen in the second
// half while bench players remain.
func (g *Generator) pick(t float64, s *side) actionProfile {
	total := 0
	for _, p := range profiles {
		total += p.weight
	}
	for {
		n := g.rng.IntN(total)
		for _, p := range profiles {
			if n < p.weight {
				if p.name == "Sub In" && (t < halfLength+5 || len(s.bench) == 0) {
					break
				}
				return p
			}
			n -= p.weight
		}
	}
}

func periodRow(team string, t float64, result string) []string {
	return []string{periodAction, result, "", team, "", "", formatFloat(t, 2), "", "", "", ""}
}

// WriteMatch writes m as CSV into dir.
func WriteMatch(dir string, m Match) (Written, error) {
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return Written{}, fmt.Errorf("failed to create directory: %w", err)
	}
	path := filepath.Join(dir, m.Name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return Written{}, fmt.Errorf("failed to create file: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		_ = f.Close()
		return Written{}, fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(m.Rows); err != nil {
		_ = f.Close()
		return Written{}, fmt.Errorf("failed to write rows: %w", err)
	}
	if err := f.Close(); err != nil {
		return Written{}, fmt.Errorf("failed to close file: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Written{}, err
	}
	return Written{Path: path, Rows: len(m.Rows), Size: info.Size()}, nil
}

func slug(s string) string { return strings.ReplaceAll(s, " ", "-") }

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(math.Round(v*math.Pow10(prec))/math.Pow10(prec), 'f', prec, 64)
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

// Package identifier draws booking reference codes and seat labels.
//
// Randomness comes from an injected Source so that tests can replay a
// sequence; production code passes a *rand.Rand from math/rand/v2.
package identifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Domenick1991/airreserve/internal/domain"
)

const (
	// CodeAlphabet has no 0/O or 1/I.
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 6

	DefaultMaxAttempts = 10

	seatRows    = 10
	seatColumns = 6
)

// Source is the randomness capability. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// CodeChecker reports whether a reference code is already in use.
type CodeChecker interface {
	ReferenceCodeExists(ctx context.Context, code string) (bool, error)
}

type Generator struct {
	src         Source
	maxAttempts int
}

type Option func(*Generator)

func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

func New(src Source, opts ...Option) *Generator {
	g := &Generator{src: src, maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewReferenceCode draws codes until checker reports one unused, giving up
// with domain.ErrExhaustedRetries after the configured number of attempts.
func (g *Generator) NewReferenceCode(ctx context.Context, checker CodeChecker) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code := g.randomCode()
		taken, err := checker.ReferenceCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no unused reference code after %d attempts", domain.ErrExhaustedRetries, g.maxAttempts)
}

func (g *Generator) randomCode() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(CodeAlphabet[g.src.IntN(len(CodeAlphabet))])
	}
	return b.String()
}

// NewSeatLabel draws a row A-J and a column 1-6. Uniqueness is the caller's job.
func (g *Generator) NewSeatLabel() string {
	row := byte('A' + g.src.IntN(seatRows))
	col := g.src.IntN(seatColumns) + 1
	return string(row) + strconv.Itoa(col)
}

// AssignSeat draws labels not present in taken. After the attempt bound it
// takes the first free label of the seat map, and fails only when every label
// is taken. The chosen label is added to taken.
func (g *Generator) AssignSeat(taken map[string]struct{}) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		label := g.NewSeatLabel()
		if _, used := taken[label]; !used {
			taken[label] = struct{}{}
			return label, nil
		}
	}
	for _, label := range SeatMap() {
		if _, used := taken[label]; !used {
			taken[label] = struct{}{}
			return label, nil
		}
	}
	return "", fmt.Errorf("%w: all %d seat labels are assigned", domain.ErrExhaustedRetries, seatRows*seatColumns)
}

// SeatMap lists every seat label in row-major order.
func SeatMap() []string {
	labels := make([]string, 0, seatRows*seatColumns)
	for r := 0; r < seatRows; r++ {
		for c := 1; c <= seatColumns; c++ {
			labels = append(labels, string(byte('A'+r))+strconv.Itoa(c))
		}
	}
	return labels
}

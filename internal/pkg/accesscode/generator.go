// Package accesscode draws the short numeric codes students log in with.
package accesscode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
)

// ErrCollision is returned by an AssignFunc when the code was taken between the check and the write
var ErrCollision = errors.New("access code collision")

// ExistsFunc reports whether a code is already assigned
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// AssignFunc stores code for its owner
type AssignFunc func(ctx context.Context, code string) error

// Generator draws random decimal codes of a fixed length
type Generator struct {
	length      int
	maxAttempts int
	random      io.Reader
}

// NewGenerator creates a generator. Non-positive values fall back to 5 digits and 10 attempts.
func NewGenerator(length, maxAttempts int) *Generator {
	if length <= 0 {
		length = 5
	}
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &Generator{length: length, maxAttempts: maxAttempts, random: rand.Reader}
}

// Draw returns one random code without checking uniqueness
func (g *Generator) Draw() (string, error) {
	buf := make([]byte, g.length)
	ten := big.NewInt(10)
	for i := range buf {
		n, err := rand.Int(g.random, ten)
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}

// Assign draws a free code and stores it with assign. A collision reported at
// write time costs one attempt from the same MaxAttempts budget as a taken draw.
func (g *Generator) Assign(ctx context.Context, exists ExistsFunc, assign AssignFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code, err := g.Draw()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check access code: %w", err)
		}
		if taken {
			continue
		}
		err = assign(ctx, code)
		if errors.Is(err, ErrCollision) {
			continue
		}
		if err != nil {
			return "", err
		}
		return code, nil
	}
	return "", apperrors.ErrAccessCodeExhausted
}

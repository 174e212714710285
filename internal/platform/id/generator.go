package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const defaultSize = 12

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type NanoGenerator struct {
	size int
}

func NewNanoGenerator() *NanoGenerator {
	return &NanoGenerator{size: defaultSize}
}

func (g *NanoGenerator) NewID() (string, error) {
	size := g.size
	if size <= 0 {
		size = defaultSize
	}
	out, err := gonanoid.New(size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}

	return out, nil
}

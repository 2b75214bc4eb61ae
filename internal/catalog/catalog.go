// Package catalog holds the static registry of recognizable monuments.
package catalog

import (
	"github.com/yatralens/backend/internal/domain"
)

// Catalog is an immutable, ordered set of monuments. Iteration order is the
// definition order and is used for tie-breaking during matching.
type Catalog struct {
	monuments []domain.Monument
	byKey     map[string]int
}

// New builds a catalog from the given monuments. Duplicate keys keep the first
// definition.
func New(monuments []domain.Monument) *Catalog {
	c := &Catalog{
		monuments: make([]domain.Monument, 0, len(monuments)),
		byKey:     make(map[string]int, len(monuments)),
	}
	for _, m := range monuments {
		if _, dup := c.byKey[m.Key]; dup || m.Key == "" || len(m.Keywords) == 0 {
			continue
		}
		c.byKey[m.Key] = len(c.monuments)
		c.monuments = append(c.monuments, cloneMonument(m))
	}
	return c
}

// Default returns the built-in Indian monument catalog
func Default() *Catalog {
	return New(defaultMonuments)
}

// Monuments returns copies of every monument in catalog order
func (c *Catalog) Monuments() []domain.Monument {
	out := make([]domain.Monument, len(c.monuments))
	for i, m := range c.monuments {
		out[i] = cloneMonument(m)
	}
	return out
}

// Get looks up a monument by its canonical key
func (c *Catalog) Get(key string) (domain.Monument, error) {
	idx, ok := c.byKey[key]
	if !ok {
		return domain.Monument{}, domain.ErrMonumentNotFound
	}
	return cloneMonument(c.monuments[idx]), nil
}

// Len returns the number of monuments
func (c *Catalog) Len() int {
	return len(c.monuments)
}

func cloneMonument(m domain.Monument) domain.Monument {
	m.Tags = append([]string(nil), m.Tags...)
	m.Keywords = append([]string(nil), m.Keywords...)
	return m
}

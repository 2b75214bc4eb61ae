package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatralens/backend/internal/domain"
)

func TestDefault(t *testing.T) {
	c := Default()

	wantOrder := []string{
		"taj mahal", "red fort", "qutub minar", "india gate", "gateway of india",
		"hawa mahal", "charminar", "lotus temple", "golden temple",
	}
	require.Equal(t, len(wantOrder), c.Len())

	for i, m := range c.Monuments() {
		assert.Equal(t, wantOrder[i], m.Key)
		assert.NotEmpty(t, m.Name, m.Key)
		assert.NotEmpty(t, m.Location, m.Key)
		assert.NotEmpty(t, m.Keywords, m.Key)
		for _, kw := range m.Keywords {
			assert.Equal(t, strings.ToLower(kw), kw, "keywords are stored lowercase")
		}
	}
}

func TestMonuments_OrderIsStable(t *testing.T) {
	c := Default()
	first := c.Monuments()
	second := c.Monuments()

	for i := range first {
		assert.Equal(t, first[i].Key, second[i].Key)
	}
}

func TestMonuments_ReturnsCopies(t *testing.T) {
	c := Default()

	listed := c.Monuments()
	listed[0].Name = "changed"
	listed[0].Keywords[0] = "changed"

	again, err := c.Get("taj mahal")
	require.NoError(t, err)
	assert.Equal(t, "Taj Mahal", again.Name)
	assert.Equal(t, "taj mahal", again.Keywords[0])
}

func TestGet(t *testing.T) {
	c := Default()

	m, err := c.Get("charminar")
	require.NoError(t, err)
	assert.Equal(t, "Hyderabad, Telangana", m.Location)

	_, err = c.Get("eiffel tower")
	assert.True(t, errors.Is(err, domain.ErrMonumentNotFound))
}

func TestNew_SkipsInvalidEntries(t *testing.T) {
	c := New([]domain.Monument{
		{Key: "a", Name: "First A", Keywords: []string{"arch"}},
		{Key: "a", Name: "Second A", Keywords: []string{"dome"}},
		{Key: "", Name: "Nameless", Keywords: []string{"tower"}},
		{Key: "b", Name: "No keywords"},
		{Key: "c", Name: "C", Keywords: []string{"fort"}},
	})

	require.Equal(t, 2, c.Len())
	a, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "First A", a.Name, "duplicate keys keep the first definition")

	_, err = c.Get("b")
	assert.Error(t, err)
}

func TestNew_CopiesInput(t *testing.T) {
	input := []domain.Monument{{Key: "a", Keywords: []string{"arch"}}}
	c := New(input)

	input[0].Keywords[0] = "mutated"

	m, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "arch", m.Keywords[0])
}

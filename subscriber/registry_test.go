package subscriber

import (
	"testing"

	"github.com/adred-codev/envelopes/codec"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Name string `json:"name"`
}

type gadget struct {
	Name string `json:"name"`
}

func TestMapRegisterAndGet(t *testing.T) {
	m := NewMap()
	m.Register("widget.v1", func() any { return &widget{} }, codec.JSON{})

	mapping, ok := m.Get("widget.v1")
	require.True(t, ok)
	require.Equal(t, "widget.v1", mapping.TypeID)

	zero := mapping.NewZero()
	_, isWidget := zero.(*widget)
	require.True(t, isWidget)
}

func TestMapGetUnknownTypeID(t *testing.T) {
	m := NewMap()
	_, ok := m.Get("nope")
	require.False(t, ok)
}

func TestMapResolvePublisherMapping(t *testing.T) {
	m := NewMap()
	m.Register("widget.v1", func() any { return &widget{} }, codec.JSON{})

	typeID, ok := m.Resolve(&widget{Name: "x"})
	require.True(t, ok)
	require.Equal(t, "widget.v1", typeID)

	_, ok = m.Resolve(&gadget{})
	require.False(t, ok)
}

func TestMapListSorted(t *testing.T) {
	m := NewMap()
	m.Register("zeta.v1", func() any { return &widget{} }, codec.JSON{})
	m.Register("alpha.v1", func() any { return &gadget{} }, codec.JSON{})

	require.Equal(t, []string{"alpha.v1", "zeta.v1"}, m.List())
}

func TestDescribeAvailable(t *testing.T) {
	require.Equal(t, "(none registered)", DescribeAvailable(nil))
	require.Equal(t, "[alpha.v1 zeta.v1]", DescribeAvailable([]string{"alpha.v1", "zeta.v1"}))
}

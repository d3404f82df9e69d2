package guard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHolder(t *testing.T) {
	h := NewHolder(Profile{Name: "Jordan"})

	require.Equal(t, "Jordan", h.Current().Name)
	require.False(t, h.Current().AutoApprove)

	h.Set(Profile{Name: "Sam", AutoApprove: true})
	require.Equal(t, "Sam", h.Current().Name)
	require.True(t, h.Current().AutoApprove)

	actor := h.Actor()
	require.Equal(t, "Sam", actor.Name)
	require.True(t, actor.AutoApprove)
}

func TestHolderConcurrent(t *testing.T) {
	h := NewHolder(Profile{Name: "Jordan"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			h.Set(Profile{Name: "Sam"})
		}
	}()
	for i := 0; i < 100; i++ {
		h.Actor()
	}
	<-done
}

// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package explore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/vidlens/internal/record"
)

func childOf(label string) *record.Dataset {
	return record.NewDataset([]record.Record{
		{"name": record.String(label + "-sub1"), "views": record.Number(3)},
		{"name": record.String(label + "-sub2"), "views": record.Number(1)},
	})
}

var echoExpander = ExpandFunc(func(seg Segment) (*record.Dataset, error) {
	return childOf(seg.Label), nil
})

func TestDrillStack_BackAtRootIsNoop(t *testing.T) {
	root := videoFixture()
	s := NewDrillStack("All", root)

	back, ok := s.Back()
	assert.False(t, ok)
	assert.Equal(t, 1, back.Depth())
	assert.Same(t, root, back.Top().Data)
	assert.False(t, s.CanGoBack())
}

func TestDrillStack_DescendThenBackRestoresRoot(t *testing.T) {
	root := videoFixture()
	s := NewDrillStack("All", root)

	down, err := s.Descend(Segment{Label: "Music"}, echoExpander)
	require.NoError(t, err)
	assert.Equal(t, 2, down.Depth())
	assert.Equal(t, []string{"All", "Music"}, down.Labels())
	assert.Equal(t, "Music-sub1", down.Top().Data.At(0)["name"].String())

	up, ok := down.Back()
	require.True(t, ok)
	assert.Equal(t, 1, up.Depth())
	assert.Same(t, root, up.Top().Data, "back must restore the identical root dataset")
	assert.Equal(t, 1, s.Depth(), "descend must not modify the original stack")
}

func TestDrillStack_PushDoesNotAlias(t *testing.T) {
	s := NewDrillStack("All", videoFixture())
	a := s.Push(DrillFrame{Label: "a", Data: childOf("a")})
	b := s.Push(DrillFrame{Label: "b", Data: childOf("b")})
	assert.Equal(t, []string{"All", "a"}, a.Labels())
	assert.Equal(t, []string{"All", "b"}, b.Labels())

	popped, _ := a.Back()
	c := popped.Push(DrillFrame{Label: "c", Data: childOf("c")})
	assert.Equal(t, []string{"All", "a"}, a.Labels())
	assert.Equal(t, []string{"All", "c"}, c.Labels())
}

func TestDescend_Failures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		exp     Expander
		wantErr error
	}{
		{
			name:    "no expander",
			exp:     nil,
			wantErr: ErrNoExpander,
		},
		{
			name: "expander error",
			exp: ExpandFunc(func(Segment) (*record.Dataset, error) {
				return nil, boom
			}),
			wantErr: boom,
		},
		{
			name: "expander panic",
			exp: ExpandFunc(func(Segment) (*record.Dataset, error) {
				panic("bad segment")
			}),
			wantErr: ErrExpandFailed,
		},
		{
			name: "nil result",
			exp: ExpandFunc(func(Segment) (*record.Dataset, error) {
				return nil, nil
			}),
			wantErr: ErrEmptyExpansion,
		},
		{
			name: "empty result",
			exp: ExpandFunc(func(Segment) (*record.Dataset, error) {
				return record.Empty(), nil
			}),
			wantErr: ErrEmptyExpansion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDrillStack("All", videoFixture())
			got, err := s.Descend(Segment{Label: "Music"}, tt.exp)
			require.Error(t, err)

			var de *DrillError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "Music", de.Label)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, got.Depth())
			assert.Equal(t, s.Top(), got.Top())
		})
	}
}

func TestDrillStack_Reset(t *testing.T) {
	s := NewDrillStack("Views", videoFixture())
	s = s.Push(DrillFrame{Label: "x", Data: childOf("x")})
	fresh := record.NewDataset([]record.Record{{"name": record.String("new")}})

	reset := s.Reset(fresh)
	assert.Equal(t, []string{"Views"}, reset.Labels())
	assert.Same(t, fresh, reset.Root().Data)
}

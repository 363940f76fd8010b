// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package explore

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/vidlens/internal/record"
)

func videoFixture() *record.Dataset {
	return record.NewDataset([]record.Record{
		{"title": record.String("v0"), "category": record.String("Music"), "owner": record.String("ann"), "views": record.Number(10)},
		{"title": record.String("v1"), "category": record.String("Music-Classical"), "owner": record.String("bob"), "views": record.Number(20)},
		{"title": record.String("v2"), "category": record.String("Music"), "owner": record.String("bob"), "views": record.Number(30)},
		{"title": record.String("v3"), "category": record.String("Games"), "owner": record.String("ann"), "views": record.Number(40)},
		{"title": record.String("v4"), "owner": record.String("cat"), "views": record.Number(50)},
	})
}

func TestApplyFilters_ExactMatchOnly(t *testing.T) {
	spec := FilterSpec{}.With("category", record.String("Music"))
	got := ApplyFilters(videoFixture().Rows(), spec)
	assert.Equal(t, []int{0, 2}, got.Indices(), "prefix categories must not match")
}

func TestApplyFilters_PreservesOrder(t *testing.T) {
	spec := FilterSpec{}.With("owner", record.String("bob"))
	got := ApplyFilters(videoFixture().Rows(), spec)
	assert.Equal(t, []int{1, 2}, got.Indices())
}

func TestApplyFilters_NoMatchIsEmpty(t *testing.T) {
	spec := FilterSpec{}.With("category", record.String("Cooking"))
	got := ApplyFilters(videoFixture().Rows(), spec)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApplyFilters_EmptySpecKeepsAll(t *testing.T) {
	got := ApplyFilters(videoFixture().Rows(), FilterSpec{})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got.Indices())
}

func TestApplyFilters_MissingFieldNeverMatches(t *testing.T) {
	spec := FilterSpec{}.With("category", record.String(""))
	got := ApplyFilters(videoFixture().Rows(), spec)
	assert.Empty(t, got)
}

func TestApplyFilters_Independence(t *testing.T) {
	rows := videoFixture().Rows()
	f1 := FilterSpec{}.With("category", record.String("Music"))
	f2 := FilterSpec{}.With("owner", record.String("bob"))
	both := f1.With("owner", record.String("bob"))

	a := ApplyFilters(rows, f1).Indices()
	b := ApplyFilters(rows, f2).Indices()
	var intersection []int
	for _, i := range a {
		if slices.Contains(b, i) {
			intersection = append(intersection, i)
		}
	}

	assert.Equal(t, intersection, ApplyFilters(rows, both).Indices())

	// Clearing one constraint restores exactly what that field excluded.
	assert.Equal(t, a, ApplyFilters(rows, both.Without("owner")).Indices())
	assert.Equal(t, b, ApplyFilters(rows, both.Without("category")).Indices())
}

func TestApplyFilters_Idempotent(t *testing.T) {
	rows := videoFixture().Rows()
	spec := FilterSpec{}.With("owner", record.String("ann"))
	once := ApplyFilters(rows, spec)
	assert.Equal(t, once, ApplyFilters(once, spec))
}

func TestFilterSpec_ValueSemantics(t *testing.T) {
	base := FilterSpec{}.With("a", record.String("x"))
	derived := base.With("b", record.String("y"))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, derived.Len())
	assert.Equal(t, []string{"a", "b"}, derived.Fields())

	cleared := derived.With("a", record.Null())
	assert.Equal(t, []string{"b"}, cleared.Fields())
	assert.Equal(t, 2, derived.Len(), "With must not mutate the receiver")

	assert.Equal(t, 1, base.With("", record.String("z")).Len(), "empty field names are ignored")
}

func TestFilterSpec_JSON(t *testing.T) {
	spec := FilterSpec{}.With("category", record.String("Music"))
	out, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"Music"}`, string(out))

	var back FilterSpec
	require.NoError(t, json.Unmarshal([]byte(`{"category":"Games","owner":null}`), &back))
	assert.Equal(t, []string{"category"}, back.Fields())

	out, err = json.Marshal(FilterSpec{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestFilterDescriptor_Options(t *testing.T) {
	data := videoFixture()

	derived := FilterDescriptor{Key: "category"}
	opts := derived.ResolveOptions(data)
	require.Len(t, opts, 3)
	assert.Equal(t, "Music", opts[0].Label)
	assert.True(t, derived.Allows(record.String("Games"), data))
	assert.False(t, derived.Allows(record.String("Cooking"), data))

	declared := FilterDescriptor{Key: "category", Options: []Option{{Value: record.String("Cooking"), Label: "Cooking"}}}
	assert.True(t, declared.Allows(record.String("Cooking"), data))
	assert.False(t, declared.Allows(record.String("Music"), data))
}

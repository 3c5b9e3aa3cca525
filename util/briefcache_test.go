package util

import (
	"testing"

	"github.com/ariebrainware/neuro-clinic/model"
	"github.com/stretchr/testify/assert"
)

func TestDisorderBriefCache(t *testing.T) {
	InvalidateDisorderBriefCache()
	t.Cleanup(InvalidateDisorderBriefCache)

	_, ok := DisorderBriefCacheGet()
	assert.False(t, ok)

	briefs := []model.DisorderBrief{{ID: "1", DisorderName: "Epilepsy"}}
	assert.True(t, DisorderBriefCacheSet(DisorderBriefGeneration(), briefs))

	got, ok := DisorderBriefCacheGet()
	assert.True(t, ok)
	assert.Equal(t, briefs, got)

	InvalidateDisorderBriefCache()
	_, ok = DisorderBriefCacheGet()
	assert.False(t, ok)
}

func TestDisorderBriefCache_EmptyListIsCached(t *testing.T) {
	InvalidateDisorderBriefCache()
	t.Cleanup(InvalidateDisorderBriefCache)

	DisorderBriefCacheSet(DisorderBriefGeneration(), []model.DisorderBrief{})
	got, ok := DisorderBriefCacheGet()
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestDisorderBriefCache_StaleFillIsDiscarded(t *testing.T) {
	InvalidateDisorderBriefCache()
	t.Cleanup(InvalidateDisorderBriefCache)

	gen := DisorderBriefGeneration()
	// A disorder mutation lands between the read and the fill.
	InvalidateDisorderBriefCache()

	stored := DisorderBriefCacheSet(gen, []model.DisorderBrief{})
	assert.False(t, stored)
	_, ok := DisorderBriefCacheGet()
	assert.False(t, ok)

	assert.True(t, DisorderBriefCacheSet(DisorderBriefGeneration(), []model.DisorderBrief{}))
}

package util

import (
	"sync"
	"time"

	"github.com/ariebrainware/neuro-clinic/model"
	cache "github.com/patrickmn/go-cache"
)

const disorderBriefKey = "disorders:brief"

// Entries live for five minutes and are dropped on every disorder mutation.
var briefCache = cache.New(5*time.Minute, 10*time.Minute)

var (
	briefMu  sync.Mutex
	briefGen uint64
)

// DisorderBriefCacheGet returns the cached brief listing and true if present.
func DisorderBriefCacheGet() ([]model.DisorderBrief, bool) {
	v, ok := briefCache.Get(disorderBriefKey)
	if !ok {
		return nil, false
	}
	briefs, ok := v.([]model.DisorderBrief)
	return briefs, ok
}

// DisorderBriefGeneration returns the current cache generation. Capture it
// before reading the disorders table and pass it to DisorderBriefCacheSet.
func DisorderBriefGeneration() uint64 {
	briefMu.Lock()
	defer briefMu.Unlock()
	return briefGen
}

// DisorderBriefCacheSet stores the brief listing read at generation gen.
// The listing is discarded, and false returned, when a mutation invalidated
// the cache after gen was captured.
func DisorderBriefCacheSet(gen uint64, briefs []model.DisorderBrief) bool {
	briefMu.Lock()
	defer briefMu.Unlock()
	if gen != briefGen {
		return false
	}
	briefCache.SetDefault(disorderBriefKey, briefs)
	return true
}

// InvalidateDisorderBriefCache drops the cached brief listing and starts a new generation.
func InvalidateDisorderBriefCache() {
	briefMu.Lock()
	defer briefMu.Unlock()
	briefGen++
	briefCache.Delete(disorderBriefKey)
}

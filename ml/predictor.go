package ml

import (
	"errors"
	"strconv"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Estimate is the result of one prediction request.
type Estimate struct {
	Price     float64      `json:"price"`
	Formatted string       `json:"formatted_price"`
	Features  []float64    `json:"features"`
	Inputs    InputSummary `json:"inputs"`
}

type modelSlot struct {
	model   PriceModel
	version uint64
}

// Predictor runs encode, evaluate and format against the current model. The model is
// swapped atomically so a reload never races an in-flight request.
type Predictor struct {
	slot     atomic.Pointer[modelSlot]
	versions atomic.Uint64
	cache    *lru.Cache[string, float64]
}

// NewPredictor creates a predictor. cacheSize <= 0 disables memoization.
func NewPredictor(model PriceModel, cacheSize int) (*Predictor, error) {
	if model == nil {
		return nil, errors.New("model is required")
	}
	p := &Predictor{}
	if cacheSize > 0 {
		cache, err := lru.New[string, float64](cacheSize)
		if err != nil {
			return nil, err
		}
		p.cache = cache
	}
	p.SetModel(model)
	return p, nil
}

func (p *Predictor) SetModel(model PriceModel) {
	p.slot.Store(&modelSlot{model: model, version: p.versions.Add(1)})
}

func (p *Predictor) Model() PriceModel {
	return p.slot.Load().model
}

func (p *Predictor) Estimate(attrs CarAttributes) (Estimate, error) {
	features, err := Encode(attrs)
	if err != nil {
		return Estimate{}, err
	}
	vector := FeatureVector(features)
	price, err := p.evaluate(vector)
	if err != nil {
		return Estimate{}, err
	}
	return Estimate{
		Price:     price,
		Formatted: FormatPrice(price),
		Features:  vector,
		Inputs:    Summarize(attrs),
	}, nil
}

func (p *Predictor) evaluate(vector []float64) (float64, error) {
	slot := p.slot.Load()
	if p.cache == nil {
		return slot.model.Predict(vector)
	}
	key := cacheKey(slot.version, vector)
	if price, ok := p.cache.Get(key); ok {
		return price, nil
	}
	price, err := slot.model.Predict(vector)
	if err != nil {
		return 0, err
	}
	p.cache.Add(key, price)
	return price, nil
}

// CacheLen reports the number of memoized predictions.
func (p *Predictor) CacheLen() int {
	if p.cache == nil {
		return 0
	}
	return p.cache.Len()
}

func cacheKey(version uint64, vector []float64) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(version, 10))
	for _, v := range vector {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}

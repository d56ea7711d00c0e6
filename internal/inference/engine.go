package inference

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Engine walks an ordered list of predictors once per classification and
// returns the first tier's result. It never fails: if every tier declines,
// the built-in coin flip answers.
type Engine struct {
	tiers []Predictor
	rng   *rand.Rand
}

// NewEngine builds an engine over the given tiers, consulted in order. The
// rng backs the last-resort guess; tests inject a seeded source, nil uses a
// time-seeded one.
func NewEngine(rng *rand.Rand, tiers ...Predictor) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{tiers: tiers, rng: rng}
}

// Classify produces a label for the image at path. The cascade is decided
// once: the first tier to answer wins and no later tier is retried.
func (e *Engine) Classify(path string) Prediction {
	for _, tier := range e.tiers {
		pred, err := tier.TryPredict(path)
		if err != nil {
			log.Debug().Err(err).Str("tier", tier.Name()).Str("image", path).
				Msg("tier declined, cascading")
			continue
		}
		pred.Tier = tier.Name()
		return pred
	}

	log.Warn().Str("image", path).Msg("all tiers declined, guessing")
	return Prediction{Label: e.rng.Intn(2), Tier: "random"}
}

package main

import (
	"fmt"

	"github.com/tomoris/HDPLDA/random"
)

type corpusConfig struct {
	docs   int
	vocab  int
	length int
	topics int
}

// plantedCorpus draws a corpus with known structure. The vocabulary is cut
// into cfg.topics disjoint blocks; each document mixes two topics and emits
// terms uniformly from their blocks.
func plantedCorpus(cfg corpusConfig, rng *random.Source) ([][]string, error) {
	if cfg.docs < 1 || cfg.length < 1 {
		return nil, fmt.Errorf("docs (%v) and length (%v) must be positive", cfg.docs, cfg.length)
	}
	if cfg.topics < 1 || cfg.vocab < cfg.topics {
		return nil, fmt.Errorf("need 1 <= topics (%v) <= vocab (%v)", cfg.topics, cfg.vocab)
	}
	block := cfg.vocab / cfg.topics

	sents := make([][]string, cfg.docs)
	for j := range sents {
		first, second := rng.IntN(cfg.topics), rng.IntN(cfg.topics)
		mix := rng.Float64()
		sent := make([]string, cfg.length)
		for i := range sent {
			z := second
			if rng.Float64() < mix {
				z = first
			}
			sent[i] = fmt.Sprintf("t%dw%d", z, rng.IntN(block))
		}
		sents[j] = sent
	}
	return sents, nil
}

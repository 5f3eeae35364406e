package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/llxisdsh/chainmap"
)

// walkthrough fills a small spin-locked table with 0..9, where hash(k)=k
// makes neighbouring keys collide, then replaces one value and prints
// every slot.
func walkthrough(cfg *Config, out io.Writer) {
	m := chainmap.NewSpinTable[int, int](chainmap.IntHasher[int]{}, chainmap.WithSlots(cfg.Slots))
	for key := 0; key < 10; key++ {
		m.Insert(key, key)
	}

	const key = 5
	value, ok := m.Lookup(key)
	if !ok {
		log.Warn().Int("key", key).Msg("cannot find key")
	} else {
		log.Info().Int("key", key).Int("value", value).Msg("found")
		m.Upsert(key, key+key)
		value, _ = m.Lookup(key)
		log.Info().Int("key", key).Int("value", value).Msg("replaced")
	}

	m.RangeSlots(func(slot int, chain []chainmap.Entry[int, int]) bool {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%d ->", slot)
		for _, e := range chain {
			fmt.Fprintf(&sb, " (%d, %d)", e.Key, e.Value)
		}
		fmt.Fprintln(out, sb.String())
		return true
	})
	log.Info().Object("stats", m.Stats()).Msg("walkthrough done")
}

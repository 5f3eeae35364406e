package chainmap

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestStats_MarshalZerologObject(t *testing.T) {
	m := NewRWTable[int, int](modHasher{}, WithSlots(7))
	for i := 0; i < 10; i++ {
		m.Insert(i, i)
	}
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("table", m.Stats()).Msg("stats")

	var out struct {
		Table map[string]float64 `json:"table"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("log line is not json: %v: %s", err, buf.String())
	}
	if out.Table["slots"] != 7 || out.Table["size"] != 10 || out.Table["maxChain"] != 2 {
		t.Fatalf("unexpected logged stats: %v", out.Table)
	}
}

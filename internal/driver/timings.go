package driver

import (
	"encoding/json"
	"fmt"

	"osta/internal/diag"
	"osta/internal/source"
)

type timingPayload struct {
	Kind    string  `json:"kind"`
	Path    string  `json:"path,omitempty"`
	TotalMS float64 `json:"total_ms"`
	Tokens  int     `json:"tokens"`
	Cached  bool    `json:"cached"`
}

// appendTimingDiagnostic records payload as an info diagnostic. The bag
// grows past its limit rather than drop the entry.
func appendTimingDiagnostic(bag *diag.Bag, file source.FileID, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "tokenize"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms, %d tokens", payload.Kind, payload.TotalMS, payload.Tokens)
	if payload.Cached {
		msg += " (cached)"
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	span := source.Span{File: file}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, span, msg).WithNote(span, string(data))
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}

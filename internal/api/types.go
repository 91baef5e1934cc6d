package api

import (
	"encoding/json"
	"strconv"
)

// Confidence is an opaque confidence value. The platform serializes it
// either as a JSON string or as a bare number depending on how the model
// answered, so both forms decode into the same string representation.
type Confidence string

func (c *Confidence) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Confidence(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = Confidence(strconv.FormatFloat(f, 'g', -1, 64))
	return nil
}

// ClassificationResult is the analysis output for one sample. Classification
// is markdown text; Confidence and Evidence may be absent.
type ClassificationResult struct {
	Classification string     `json:"classification"`
	Confidence     Confidence `json:"confidence,omitempty"`
	Evidence       string     `json:"evidence,omitempty"`
}

// SampleRecord is one sample as reported by the listing endpoints. Result is
// nil until the analysis has completed.
type SampleRecord struct {
	SampleID string                `json:"sample_id"`
	QRCode   string                `json:"qr_code,omitempty"`
	Status   string                `json:"status,omitempty"`
	Result   *ClassificationResult `json:"result,omitempty"`
}

// ResultEnvelope is the normalized payload of the result endpoint. The wire
// shape is asymmetric with the listing endpoints: while processing the server
// answers {status, message}, and once completed it answers the classification
// fields FLAT at the top level rather than nested under `result`. Both shapes
// decode into this one envelope.
type ResultEnvelope struct {
	Status  string
	Message string
	Result  *ClassificationResult
}

// Completed reports whether the envelope carries a usable classification.
func (e *ResultEnvelope) Completed() bool {
	return e != nil && e.Result != nil && e.Result.Classification != ""
}

// resultWire is the union of both result-endpoint shapes.
type resultWire struct {
	Status         string     `json:"status"`
	Message        string     `json:"message"`
	Classification string     `json:"classification"`
	Confidence     Confidence `json:"confidence"`
	Evidence       string     `json:"evidence"`
}

func (w *resultWire) envelope() *ResultEnvelope {
	env := &ResultEnvelope{Status: w.Status, Message: w.Message}
	if w.Classification != "" {
		env.Result = &ClassificationResult{
			Classification: w.Classification,
			Confidence:     w.Confidence,
			Evidence:       w.Evidence,
		}
	}
	return env
}

// sampleWire is the union of the single-sample shapes: a full sample document
// with the result nested under `result`, or the result fields flat.
type sampleWire struct {
	SampleID       string                `json:"sample_id"`
	QRCode         string                `json:"qr_code"`
	Status         string                `json:"status"`
	Result         *ClassificationResult `json:"result"`
	Classification string                `json:"classification"`
	Confidence     Confidence            `json:"confidence"`
	Evidence       string                `json:"evidence"`
}

func (w *sampleWire) record(fallbackID string) *SampleRecord {
	rec := &SampleRecord{
		SampleID: w.SampleID,
		QRCode:   w.QRCode,
		Status:   w.Status,
		Result:   w.Result,
	}
	if rec.SampleID == "" {
		rec.SampleID = fallbackID
	}
	if rec.Result == nil && w.Classification != "" {
		rec.Result = &ClassificationResult{
			Classification: w.Classification,
			Confidence:     w.Confidence,
			Evidence:       w.Evidence,
		}
	}
	return rec
}

func (w *sampleWire) empty() bool {
	return w.SampleID == "" && w.Status == "" && w.Result == nil && w.Classification == ""
}

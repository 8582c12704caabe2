package entity

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrInvalidResultPayload = errors.New("invalid evaluation result payload")

// Result is the outcome of evaluating a flag. It is immutable: accessors hand
// out copies so a cached or shared result cannot be altered by callers.
type Result struct {
	enabled    bool
	parameters map[string]string
	validUntil *time.Time
}

// NewEnabledResult builds an enabled result carrying the matched rule's payload.
func NewEnabledResult(parameters map[string]string, validUntil *time.Time) *Result {
	params := make(map[string]string, len(parameters))
	for k, v := range parameters {
		params[k] = v
	}
	var until *time.Time
	if validUntil != nil {
		t := validUntil.UTC()
		until = &t
	}
	return &Result{enabled: true, parameters: params, validUntil: until}
}

// NewDisabledResult builds a disabled result with no payload and no end date.
func NewDisabledResult() *Result {
	return &Result{parameters: map[string]string{}}
}

// ResultFromRule builds an enabled result from a matched rule.
func ResultFromRule(rule *Rule) *Result {
	var until *time.Time
	if end, ok, err := rule.End(); err == nil && ok {
		until = &end
	}
	return NewEnabledResult(rule.ReturnValues(), until)
}

func (r *Result) IsEnabled() bool {
	return r.enabled
}

// Parameters returns a copy of the payload; never nil.
func (r *Result) Parameters() map[string]string {
	params := make(map[string]string, len(r.parameters))
	if !r.enabled {
		return params
	}
	for k, v := range r.parameters {
		params[k] = v
	}
	return params
}

// ValidUntil returns the end of the result's validity window, if any.
func (r *Result) ValidUntil() (time.Time, bool) {
	if r.validUntil == nil {
		return time.Time{}, false
	}
	return *r.validUntil, true
}

// TTL returns how long the result may be cached when evaluated at now.
// Zero with ok=true means no expiry. ok=false means the validity window has
// already closed and the result must not be cached.
func (r *Result) TTL(now time.Time) (ttl time.Duration, ok bool) {
	if r.validUntil == nil {
		return 0, true
	}
	seconds := int64(r.validUntil.Sub(now) / time.Second)
	if seconds <= 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

type resultPayload struct {
	Enabled    *bool             `json:"enabled"`
	Parameters map[string]string `json:"parameters"`
	ValidUntil *time.Time        `json:"valid_until,omitempty"`
}

// MarshalBinary encodes the result for the cache.
func (r *Result) MarshalBinary() ([]byte, error) {
	enabled := r.enabled
	return json.Marshal(resultPayload{
		Enabled:    &enabled,
		Parameters: r.Parameters(),
		ValidUntil: r.validUntil,
	})
}

// DecodeResult parses a cached payload, rejecting anything that does not have
// the shape written by MarshalBinary.
func DecodeResult(data []byte) (*Result, error) {
	var payload resultPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Join(ErrInvalidResultPayload, err)
	}
	if payload.Enabled == nil || payload.Parameters == nil {
		return nil, ErrInvalidResultPayload
	}
	if !*payload.Enabled {
		if len(payload.Parameters) > 0 {
			return nil, ErrInvalidResultPayload
		}
		return NewDisabledResult(), nil
	}
	return NewEnabledResult(payload.Parameters, payload.ValidUntil), nil
}

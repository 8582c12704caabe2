package entity

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout used for rule start and end dates.
const DateLayout = "2006-01-02 15:04:05"

// Rule is one persisted row of the featured_flags table. Several rules may
// share a name; the first active rule whose params satisfy the filter wins.
type Rule struct {
	ID           int64          `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Status       bool           `json:"status" db:"status"`
	StartDate    sql.NullString `json:"start_date" db:"start_date"`
	EndDate      sql.NullString `json:"end_date" db:"end_date"`
	Params       sql.NullString `json:"params" db:"params"`
	ReturnParams sql.NullString `json:"return_params" db:"return_params"`
}

// Start returns the parsed start date. Null and empty values report false.
func (r *Rule) Start() (time.Time, bool, error) {
	return parseRuleDate(r.StartDate)
}

// End returns the parsed end date. Null and empty values report false.
func (r *Rule) End() (time.Time, bool, error) {
	return parseRuleDate(r.EndDate)
}

// ActiveAt reports whether the rule's validity window contains asOf.
// Both bounds are inclusive and either may be absent.
func (r *Rule) ActiveAt(asOf time.Time) bool {
	start, hasStart, err := r.Start()
	if err != nil {
		return false
	}
	end, hasEnd, err := r.End()
	if err != nil {
		return false
	}

	asOf = asOf.UTC().Truncate(time.Second)
	switch {
	case !hasStart && !hasEnd:
		return true
	case hasStart && hasEnd:
		return !asOf.Before(start) && !asOf.After(end)
	case hasEnd:
		return !asOf.After(end)
	default:
		return !asOf.Before(start)
	}
}

// MatchesFilter reports whether the rule's params satisfy filter. A nil filter
// matches every rule, even one with malformed params. Otherwise the params must
// decode to a non-empty object holding every filter key with an equal string
// value; extra keys are ignored.
func (r *Rule) MatchesFilter(filter map[string]string) bool {
	if filter == nil {
		return true
	}

	params, ok := decodeObject(r.Params)
	if !ok || len(params) == 0 {
		return false
	}

	for key, want := range filter {
		got, exists := params[key]
		if !exists {
			return false
		}
		s, isString := got.(string)
		if !isString || s != want {
			return false
		}
	}
	return true
}

// ReturnValues decodes return_params into a string map. Missing or malformed
// payloads yield an empty map.
func (r *Rule) ReturnValues() map[string]string {
	values := make(map[string]string)
	obj, ok := decodeObject(r.ReturnParams)
	if !ok {
		return values
	}
	for key, v := range obj {
		switch typed := v.(type) {
		case string:
			values[key] = typed
		case nil:
			values[key] = ""
		default:
			raw, err := json.Marshal(typed)
			if err != nil {
				continue
			}
			values[key] = string(raw)
		}
	}
	return values
}

func decodeObject(raw sql.NullString) (map[string]any, bool) {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw.String), &obj); err != nil {
		return nil, false
	}
	return obj, obj != nil
}

func parseRuleDate(raw sql.NullString) (time.Time, bool, error) {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return time.Time{}, false, nil
	}
	value := strings.TrimSpace(raw.String)
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid rule date %q", value)
}

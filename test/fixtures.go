package test

import (
	"database/sql"
	"time"

	"featuredflags/entity"
)

// FixtureTime is the evaluation instant the fixture rules are written against.
var FixtureTime = time.Date(2016, time.January, 21, 1, 2, 3, 0, time.UTC)

// Str returns a valid nullable string.
func Str(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// FixtureRules is the shared rule set for evaluator and store tests.
func FixtureRules() []entity.Rule {
	return []entity.Rule{
		{Name: "flag1", Status: false},
		{Name: "flag2", Status: false, Params: Str(`{"data":"dt_false"}`)},
		{Name: "flag2", Status: true, Params: Str(`{"data":"dt_true","data2":"exist"}`), ReturnParams: Str(`{"data":"example"}`)},
		{Name: "flagDateJanuary", Status: true},
		{Name: "flagDateFebruary", Status: true, StartDate: Str("2016-02-01 00:00:00"), EndDate: Str("2016-02-29 23:59:59")},
		{Name: "flagDateStartJanuary", Status: true, StartDate: Str("2016-01-01 00:00:00"), EndDate: Str("")},
		{Name: "flagDateStartFebruary", Status: true, StartDate: Str("2016-02-01 00:00:00")},
		{Name: "flagDateEndFebruary", Status: true, StartDate: Str(""), EndDate: Str("2016-02-29 23:59:59")},
		{Name: "flagDateEndJanuary", Status: true, EndDate: Str("2016-01-20 23:59:59")},
		{Name: "flagDateEndAlways", Status: true, EndDate: Str("2016-01-31 23:59:59")},
		{Name: "flagReturnParams", Status: true, ReturnParams: Str(`{"data":"example","data2":"example2"}`)},
		{Name: "flagReturnParamsDisabled", Status: true},
		{Name: "flagReturnParamsJanuary", Status: true, StartDate: Str("2016-01-01 00:00:00"), EndDate: Str("2016-01-31 23:59:59"), ReturnParams: Str(`{"data":"example","data2":"example2"}`)},
		{Name: "flagReturnParamsFebruary", Status: true, StartDate: Str("2016-02-01 00:00:00"), EndDate: Str("2016-02-29 23:59:59"), ReturnParams: Str(`{"data":"example","data2":"example2"}`)},
		{Name: "flagReturnParamsWithFilter", Status: true, Params: Str(`{"data1":"dt_true","data2":"exist","data3":"extra"}`), ReturnParams: Str(`{"data":"example","data2":"example2"}`)},
		{Name: "flagMalformedParams", Status: true, Params: Str(`{not json`), ReturnParams: Str(`{"data":"malformed"}`)},
		{Name: "flagFirstMatch", Status: true, Params: Str(`{"country":"de"}`), ReturnParams: Str(`{"variant":"first"}`)},
		{Name: "flagFirstMatch", Status: true, Params: Str(`{"country":"de","tier":"gold"}`), ReturnParams: Str(`{"variant":"second"}`)},
	}
}

package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !d.Equal(NewDate(2024, time.February, 29)) {
		t.Errorf("unexpected date %s", d)
	}

	for _, in := range []string{"", "2024-13-01", "29/02/2024", "2023-02-29"} {
		_, err := ParseDate(in)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) || validationErr.Field != "date" {
			t.Errorf("%q: expected date validation error, got: %v", in, err)
		}
	}
}

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-8", -8*60*60)
	d := DateOf(time.Date(2024, time.March, 1, 23, 30, 0, 0, loc))
	if d.String() != "2024-03-01" {
		t.Errorf("expected 2024-03-01, got %s", d)
	}
	if !d.Time().Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected midnight UTC, got %s", d.Time())
	}
}

func TestDateJSONAndSQL(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal([]Date{NewDate(2024, time.May, 6), {}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["2024-05-06",null]` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2024-05-06"`), &d); err != nil || d.String() != "2024-05-06" {
		t.Errorf("unmarshal: got %s (%v)", d, err)
	}

	if err := d.Scan(time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)); err != nil || d.String() != "2020-01-02" {
		t.Errorf("scan time: got %s (%v)", d, err)
	}
	if err := d.Scan([]byte("2021-07-08")); err != nil || d.String() != "2021-07-08" {
		t.Errorf("scan bytes: got %s (%v)", d, err)
	}

	v, err := Date{}.Value()
	if err != nil || v != nil {
		t.Errorf("expected nil value for zero date, got %v (%v)", v, err)
	}
}

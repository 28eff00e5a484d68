package timeutil

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	dateTimeFormat = "2006-01-02T15:04:05Z"
	dateFormat     = "2006-01-02"
)

// DateTime is a UTC timestamp serialized with second precision.
type DateTime struct {
	time.Time
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var dateStr string
	if err := json.Unmarshal(data, &dateStr); err != nil {
		return err
	}

	parsed, err := time.Parse(dateTimeFormat, dateStr)
	if err != nil {
		return err
	}

	d.Time = parsed.UTC()
	return nil
}

func (d DateTime) String() string {
	return d.Time.UTC().Format(dateTimeFormat)
}

func (d DateTime) Value() (driver.Value, error) {
	return d.Time.UTC(), nil
}

func (d *DateTime) Scan(value any) error {
	t, ok := value.(time.Time)
	if !ok {
		return fmt.Errorf("unsupported type %T for DateTime", value)
	}
	d.Time = t.UTC()
	return nil
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{
		Time: t.UTC(),
	}
}

func DateTimeNow() DateTime {
	return NewDateTime(Now())
}

// Date is a calendar day without time of day, e.g. a birth date.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var dateStr string
	if err := json.Unmarshal(data, &dateStr); err != nil {
		return err
	}

	parsed, err := ParseDate(dateStr)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

func (d Date) String() string {
	return d.Time.Format(dateFormat)
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(value any) error {
	t, ok := value.(time.Time)
	if !ok {
		return fmt.Errorf("unsupported type %T for Date", value)
	}
	*d = NewDate(t)
	return nil
}

func NewDate(t time.Time) Date {
	return Date{
		Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
	}
}

func ParseDate(s string) (Date, error) {
	parsed, err := time.Parse(dateFormat, s)
	if err != nil {
		return Date{}, err
	}

	return Date{
		Time: parsed.UTC(),
	}, nil
}

func Now() time.Time {
	return time.Now().UTC()
}

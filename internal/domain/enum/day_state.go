package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DayState represents whether a business day accepts new sales
type DayState int

const (
	DayStateClosed DayState = 0
	DayStateOpen   DayState = 1
)

func (s DayState) String() string {
	names := [...]string{"Closed", "Open"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Closed"
	}
	return names[s]
}

// Toggled returns the opposite state
func (s DayState) Toggled() DayState {
	if s == DayStateOpen {
		return DayStateClosed
	}
	return DayStateOpen
}

func (s DayState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *DayState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = DayState(i)
		return nil
	}
	switch str {
	case "Closed":
		*s = DayStateClosed
	case "Open":
		*s = DayStateOpen
	}
	return nil
}

func (s DayState) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *DayState) Scan(value interface{}) error {
	if value == nil {
		*s = DayStateClosed
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = DayState(v)
	case int:
		*s = DayState(v)
	}
	return nil
}

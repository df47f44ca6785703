package config

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
)

// Duration is a time.Duration that can be written in config files either as
// a Go duration string such as "1.5s", or as a number of seconds.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler. The YAML library converts
// documents to JSON before decoding them.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		parsed, err := time.ParseDuration(str)
		if err != nil {
			return errors.WithContext(err, "parse duration")
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(b, &seconds); err != nil {
		return errors.New("duration must be a string or a number of seconds, got %s", b)
	}
	*d = Duration(seconds * float64(time.Second))
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The TOML library passes
// it the raw value, so numbers arrive as their literal text.
func (d *Duration) UnmarshalText(b []byte) error {
	if parsed, err := time.ParseDuration(string(b)); err == nil {
		*d = Duration(parsed)
		return nil
	}

	seconds, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return errors.New("duration must be a string or a number of seconds, got %q", b)
	}
	*d = Duration(seconds * float64(time.Second))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

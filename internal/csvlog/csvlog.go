// Package csvlog appends controller readings to a local CSV file, one
// row per successful sensor reading.
package csvlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/keegan/growroom/internal/control"
	"github.com/keegan/growroom/internal/sensor"
)

var header = []string{"Timestamp", "Temperature_F", "Temperature_C", "Humidity", "Relay1", "Relay2"}

// Appender writes rows to a CSV file, creating it with a header row on
// first use. The file is opened per append; write volume is one row per
// sensor poll.
type Appender struct {
	path string
}

// New creates an Appender and bootstraps the file with a header if it
// does not exist yet.
func New(path string) (*Appender, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("create csv: %w", err)
		}
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("write csv header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("flush csv header: %w", err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("close csv: %w", err)
		}
	}
	return &Appender{path: path}, nil
}

// Append writes one reading row with the current relay states.
func (a *Appender) Append(r sensor.Reading, relay1, relay2 control.State) error {
	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := []string{
		r.Time.Format(time.RFC3339),
		strconv.FormatFloat(r.TempF, 'f', 1, 64),
		strconv.FormatFloat(r.TempC, 'f', 1, 64),
		strconv.FormatFloat(r.Humidity, 'f', 1, 64),
		string(relay1),
		string(relay2),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv row: %w", err)
	}
	return nil
}

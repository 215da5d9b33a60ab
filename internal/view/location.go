package view

import (
	"fmt"
	"net/url"
)

// FromDeviceParam is the query parameter that names the expanded device
const FromDeviceParam = "from_device"

// Location mirrors the browser address bar of one view. Pushes replace the
// from_device parameter and append to history without reloading.
type Location struct {
	current *url.URL
	history []string
}

// ParseLocation parses the page URL a view was opened with
func ParseLocation(raw string) (*Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	return &Location{
		current: u,
		history: []string{u.String()},
	}, nil
}

// FromDevice returns the from_device parameter, if present and non-empty
func (l *Location) FromDevice() (string, bool) {
	id := l.current.Query().Get(FromDeviceParam)
	return id, id != ""
}

// PushFromDevice sets from_device to id, keeping other parameters
func (l *Location) PushFromDevice(id string) string {
	next := *l.current
	query := next.Query()
	query.Set(FromDeviceParam, id)
	next.RawQuery = query.Encode()

	l.current = &next
	l.history = append(l.history, next.String())
	return next.String()
}

// String returns the current URL
func (l *Location) String() string {
	return l.current.String()
}

// History returns every URL the view has shown, oldest first
func (l *Location) History() []string {
	out := make([]string, len(l.history))
	copy(out, l.history)
	return out
}
